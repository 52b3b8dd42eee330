package probe

// Kind selects the request shape sent to a project endpoint.
type Kind string

const (
	// KindRPC invokes the remote `keepalive` procedure.
	KindRPC Kind = "rpc"
	// KindTable reads one row's id column from a configured table.
	KindTable Kind = "table"
	// KindHealth is the minimal connectivity probe used as a fallback. It
	// only confirms the endpoint is reachable and the credential accepted.
	KindHealth Kind = "health"
)

// Request describes one probe against a remote project endpoint. The
// credential is sent as a bearer-style key and must never be logged.
type Request struct {
	Kind       Kind
	Endpoint   string
	Credential string
	Table      string // table reads only
}

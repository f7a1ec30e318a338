package logg

const (
	Layer     = "layer"
	Operation = "operation"
	SessionID = "session_id"
	Reference = "reference"
	Selector  = "selector"
	Strategy  = "strategy"
	Tool      = "tool"
	Format    = "format"
	URL       = "url"
)

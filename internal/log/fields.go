package log

// Common field names for structured logging.
const (
	FieldComponent   = "component"
	FieldRequestID   = "request_id"
	FieldClientIP    = "client_ip"
	FieldMethod      = "method"
	FieldPath        = "path"
	FieldStatusCode  = "status_code"
	FieldDuration    = "duration_ms"
	FieldUserAgent   = "user_agent"
	FieldError       = "error"
	FieldOperation   = "operation"
	FieldUserID      = "user_id"
	FieldEntity      = "entity"
	FieldItemID      = "item_id"
	FieldAmountCents = "amount_cents"
	FieldCategory    = "category"
	FieldSnapshot    = "snapshot_path"
)

// Components defines standard component names.
const (
	ComponentApp      = "app"
	ComponentHTTP     = "http"
	ComponentLedger   = "ledger"
	ComponentStore    = "store"
	ComponentSnapshot = "snapshot"
	ComponentAMQP     = "amqp"
	ComponentBot      = "bot"
	ComponentWorker   = "worker"
	ComponentAudit    = "audit"
)

package errors

// Sentinel errors for the crawler's own taxonomy (§7). The upstream clients
// normalize per-request status codes into domain.UpstreamStatus, which the
// worker switches on; the worker attaches the matching sentinel below to the
// log line of each branch.
var (
	ErrConfigInvalid = New("CONFIG_INVALID", "configuration missing or unparseable", 0)

	ErrCredentialsExhausted = New("CREDENTIALS_EXHAUSTED", "AK-set is empty", 0)
	ErrTaskQueueEmpty       = New("TASK_QUEUE_EMPTY", "task-queue is empty", 0)

	ErrUpstreamTransport      = New("UPSTREAM_TRANSPORT", "transport failure contacting upstream", 0)
	ErrUpstreamQuotaExhausted = New("UPSTREAM_QUOTA_EXHAUSTED", "credential quota exhausted", 0)
	ErrUpstreamIPRejected     = New("UPSTREAM_IP_REJECTED", "credential bound to wrong IP", 0)
	ErrUpstreamRateLimited    = New("UPSTREAM_RATE_LIMITED", "concurrency cap exceeded", 0)
	ErrUpstreamBadRequest     = New("UPSTREAM_BAD_REQUEST", "malformed request parameters", 0)
	ErrUpstreamOther          = New("UPSTREAM_OTHER", "unrecognized upstream status", 0)

	ErrSubdivisionOnNamedRegion = New("SUBDIVISION_ON_NAMED_REGION", "cap hit on a region name, cannot subdivide", 0)
	ErrAOIDecodeFailed          = New("AOI_DECODE_FAILED", "failed to decode AOI string", 0)
	ErrRecordParseFailed        = New("RECORD_PARSE_FAILED", "failed to parse a single result record", 0)

	ErrRegionNotFound = New("REGION_NOT_FOUND", "named region not found in configuration", 0)

	ErrStoreDelete = New("STORE_DELETE_FAILED", "delete-then-insert: delete step failed", 0)
	ErrStoreInsert = New("STORE_INSERT_FAILED", "delete-then-insert: insert step failed", 0)
)

const (
	CodeInvalidInput = "INVALID_INPUT"
)

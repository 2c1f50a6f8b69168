package repository

import "context"

// CoordinationStore is the domain-typed wrapper over the external key/value
// + queue service (C4, §4.4). Every method is blocking; the client owns no
// retry logic, errors surface unchanged to the caller.
type CoordinationStore interface {
	// SampleCredential returns a uniformly random element of the AK-set, or
	// ok=false if the set is empty.
	SampleCredential(ctx context.Context) (ak string, ok bool, err error)
	RemoveCredential(ctx context.Context, ak string) error
	CredentialCount(ctx context.Context) (int64, error)
	ResetCredentials(ctx context.Context, aks []string) error
	ListCredentials(ctx context.Context) ([]string, error)

	// PopTask pops the head of the task-queue, or ok=false if empty.
	PopTask(ctx context.Context) (item string, ok bool, err error)
	RequeueHead(ctx context.Context, item string) error
	RequeueTail(ctx context.Context, item string) error
	TaskQueueLen(ctx context.Context) (int64, error)

	IsVisited(ctx context.Context, uid string) (bool, error)
	// MarkVisited returns true iff uid was newly added (the check-and-set
	// primitive §5's dedup atomicity depends on).
	MarkVisited(ctx context.Context, uid string) (bool, error)
	VisitedCount(ctx context.Context) (int64, error)
	ResetVisited(ctx context.Context, uids []string) error

	PushResult(ctx context.Context, serialized string) error
	PopResult(ctx context.Context) (serialized string, ok bool, err error)
	ResultQueueLen(ctx context.Context) (int64, error)
}

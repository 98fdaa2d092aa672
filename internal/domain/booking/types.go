package booking

// Status is a caller-supplied lifecycle tag. The engine stores it verbatim and
// never gates the overlap check on it: a cancelled booking keeps holding its
// date range until the caller deletes the row. Call sites own that cleanup.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
)

func (s Status) String() string {
	return string(s)
}

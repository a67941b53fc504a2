package models

import "time"

// ActivityAction enumerates the audited operations.
type ActivityAction string

const (
	ActivityLogin    ActivityAction = "LOGIN"
	ActivityLogout   ActivityAction = "LOGOUT"
	ActivityCreate   ActivityAction = "CREATE"
	ActivityUpdate   ActivityAction = "UPDATE"
	ActivityDelete   ActivityAction = "DELETE"
	ActivityView     ActivityAction = "VIEW"
	ActivityDownload ActivityAction = "DOWNLOAD"
	ActivityConfirm  ActivityAction = "CONFIRM"
	ActivityReject   ActivityAction = "REJECT"
)

// ActivityLog is the append-only audit trail. Rows are written inside the
// mutating operation and mirrored to the audit event stream; they are never
// updated or deleted.
type ActivityLog struct {
	ID        uint           `gorm:"primaryKey"`
	Actor     string         `gorm:"size:150;index"`
	Action    ActivityAction `gorm:"size:10;not null"`
	ModelName string         `gorm:"size:100"`
	ObjectID  uint
	Number    string `gorm:"size:50"`
	IPAddress string `gorm:"size:45"`
	UserAgent string
	CreatedAt time.Time
}

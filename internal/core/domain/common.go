package domain

import "time"

// AuditFields holds standard audit information for persisted domain
// entities. Actor fields carry the user id from the calling context, or
// "system" for pipeline-generated records.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"`
}

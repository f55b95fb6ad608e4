// internal/workers/notification/send-candidate-notification/models.go
package sendcandidatenotification

type Input struct {
	Email            string                 `json:"email"`
	Phone            string                 `json:"phone,omitempty"`
	FullName         string                 `json:"fullName,omitempty"`
	NotificationType string                 `json:"notificationType"`
	CandidateID      string                 `json:"candidateId,omitempty"`
	Priority         string                 `json:"priority,omitempty"`
	Metadata         map[string]interface{} `json:"metadata,omitempty"`
}

type Output struct {
	NotificationID string `json:"notificationId"`
	Status         string `json:"status"` // "sent", "failed", "disabled"
	SentAt         string `json:"sentAt"` // ISO 8601
}

// Notification types
const (
	TypeCVReceived         = "cv_received"
	TypeInterviewScheduled = "interview_scheduled"
	TypeIDAssigned         = "id_assigned"
)

// Statuses
const (
	StatusSent     = "sent"
	StatusFailed   = "failed"
	StatusDisabled = "disabled"
)

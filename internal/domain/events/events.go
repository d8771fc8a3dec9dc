package events

import "github.com/maxaizer/job-board/internal/domain/models"

var (
	PostingChangedTopic           = "PostingChangedEvent"
	PostingDeletedTopic           = "PostingDeletedEvent"
	ApplicationSubmittedTopic     = "ApplicationSubmittedEvent"
	ApplicationStatusChangedTopic = "ApplicationStatusChangedEvent"
)

type PostingChanged struct {
	PostingID string
	Status    models.PostingStatus
}

type PostingDeleted struct {
	PostingID           string
	RemovedApplications int64
}

type ApplicationSubmitted struct {
	ApplicationID string
	PostingID     string
	PostingTitle  string
	ApplicantName string
}

type ApplicationStatusChanged struct {
	ApplicationID string
	PostingTitle  string
	From          models.ApplicationStatus
	To            models.ApplicationStatus
}

package events

var CompanyDeletedTopic = "CompanyDeletedEvent"

type CompanyDeleted struct {
	CompanyID int
}

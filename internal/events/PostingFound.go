package events

var PostingFoundTopic = "PostingFoundEvent"

type PostingFound struct {
	CompanyID   int
	CompanyName string
	Title       string
	Url         string
}

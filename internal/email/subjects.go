package email

const (
	subjectFollowUpDigestFmt = "%d lead(s) due for follow-up on %s"
)

package mail

// NewLeadEmailData feeds templates/new_lead.html.
type NewLeadEmailData struct {
	FullName      string
	Phone         string
	Origin        string
	InquiryNumber string
	AssignedTo    string
	BranchID      string
}

type EmailSender struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	// To is the sales inbox that receives new lead notifications.
	To string

	dialer Dialer
}

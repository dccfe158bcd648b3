package mail

type EmailSender struct {
	Host      string
	Port      int
	User      string
	Password  string
	SalesAddr string
}

type SalesAlertData struct {
	Kind        string
	Name        string
	Email       string
	ServiceType string
	Message     string
}

type BookingConfirmationData struct {
	Name        string
	Date        string
	TimeSlot    string
	MeetingLink string
}

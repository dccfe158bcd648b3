package leadapi

// Request bodies match the persistence endpoints exactly: enum values
// travel in wire casing (STAFF_AUGMENTATION, VIDEO_CALL), field names
// in snake_case.

type contactRequest struct {
	Kind           string `json:"kind"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	Phone          string `json:"phone,omitempty"`
	Company        string `json:"company,omitempty"`
	ServiceType    string `json:"service_type"`
	Message        string `json:"message"`
	Budget         string `json:"budget,omitempty"`
	Timeline       string `json:"timeline,omitempty"`
	IdempotencyKey string `json:"idempotency_key"`
}

type bookingRequest struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Phone          string `json:"phone,omitempty"`
	Company        string `json:"company,omitempty"`
	ServiceType    string `json:"service_type"`
	MeetingType    string `json:"meeting_type"`
	PreferredDate  string `json:"preferred_date"`
	PreferredTime  string `json:"preferred_time"`
	Timezone       string `json:"timezone"`
	Notes          string `json:"notes,omitempty"`
	IdempotencyKey string `json:"idempotency_key"`
}

type applicationRequest struct {
	JobRef            string `json:"job_ref,omitempty"`
	FirstName         string `json:"first_name"`
	LastName          string `json:"last_name"`
	Email             string `json:"email"`
	Phone             string `json:"phone"`
	Location          string `json:"location"`
	Experience        string `json:"experience"`
	Availability      string `json:"availability"`
	PortfolioURL      string `json:"portfolio_url,omitempty"`
	LinkedInURL       string `json:"linkedin_url,omitempty"`
	Consent           bool   `json:"consent"`
	ResumeFilename    string `json:"resume_filename"`
	ResumeContentType string `json:"resume_content_type"`
	ResumeSize        int64  `json:"resume_size"`
	ResumeStorageKey  string `json:"resume_storage_key,omitempty"`
	IdempotencyKey    string `json:"idempotency_key"`
}

type apiResponse struct {
	Success     bool   `json:"success"`
	Message     string `json:"message,omitempty"`
	Error       string `json:"error,omitempty"`
	ID          string `json:"id,omitempty"`
	MeetingLink string `json:"meeting_link,omitempty"`
	Errors      []struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	} `json:"errors,omitempty"`
}

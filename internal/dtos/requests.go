package dtos

// Multipart forms bind through `form` tags, JSON bodies through `json` tags.
// Required fields are checked by the services so clients get domain messages.

type RegisterRequest struct {
	Fullname    string `form:"fullname"`
	Email       string `form:"email" binding:"omitempty,email"`
	PhoneNumber string `form:"phoneNumber"`
	Password    string `form:"password" binding:"omitempty,max=72"`
	Role        string `form:"role"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"omitempty,email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type ProfileUpdateRequest struct {
	Fullname    string `form:"fullname"`
	Email       string `form:"email" binding:"omitempty,email"`
	PhoneNumber string `form:"phoneNumber"`
	Bio         string `form:"bio" binding:"max=2000"`
	Skills      string `form:"skills"`
}

type CompanyRegisterRequest struct {
	CompanyName string `json:"companyName"`
}

type CompanyUpdateRequest struct {
	Name        string `form:"name"`
	Description string `form:"description"`
	Website     string `form:"website" binding:"omitempty,url"`
	Location    string `form:"location"`
}

type JobSearchRequest struct {
	Query    string `form:"query"`
	Location string `form:"location"`
	JobType  string `form:"jobType"`
	Salary   string `form:"salary"`
	Category string `form:"category"`
	Page     int    `form:"page"`
	Limit    int    `form:"limit"`
}

type JobCreateRequest struct {
	Title       string `json:"title"`
	CompanyID   string `json:"companyId"`
	Location    string `json:"location"`
	Type        string `json:"type"`
	Category    string `json:"category"`
	Salary      int64  `json:"salary" binding:"min=0"`
	Description string `json:"description"`
	Status      string `json:"status"`
	Featured    bool   `json:"featured"`
}

type JobUpdateRequest struct {
	Title       *string `json:"title"`
	CompanyID   *string `json:"companyId"`
	Location    *string `json:"location"`
	Type        *string `json:"type"`
	Category    *string `json:"category"`
	Salary      *int64  `json:"salary" binding:"omitempty,min=0"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
	Featured    *bool   `json:"featured"`
}

type StatusRequest struct {
	Status string `json:"status"`
}

type ApplyRequest struct {
	JobID string `json:"jobId"`
}

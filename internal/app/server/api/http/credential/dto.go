package credential

import "passvault/internal/domain/credential"

type idInput struct {
	ID string `path:"id" format:"uuid" doc:"Credential id"`
}

type addInput struct {
	Body addRequest
}

type addRequest struct {
	Site     string `json:"site" minLength:"1" maxLength:"255" doc:"Site or service name"`
	SiteURL  string `json:"site_url,omitempty" maxLength:"2048" doc:"Absolute http(s) URL"`
	Username string `json:"username" minLength:"1" maxLength:"255"`
	Password string `json:"password" minLength:"1" doc:"Secret to store, encrypted at rest"`
	Notes    string `json:"notes,omitempty"`
}

type updateInput struct {
	ID   string `path:"id" format:"uuid" doc:"Credential id"`
	Body updateRequest
}

// updateRequest fields left out keep their stored value.
type updateRequest struct {
	Site     *string `json:"site,omitempty"`
	SiteURL  *string `json:"site_url,omitempty"`
	Username *string `json:"username,omitempty"`
	Password *string `json:"password,omitempty"`
	Notes    *string `json:"notes,omitempty"`
}

type shareInput struct {
	ID   string `path:"id" format:"uuid" doc:"Credential id"`
	Body shareRequest
}

type shareRequest struct {
	To string `json:"to" minLength:"1" doc:"Recipient login"`
}

type credentialOutput struct {
	Body credential.Credential
}

type credentialListOutput struct {
	Body credentialListResponse
}

type credentialListResponse struct {
	Credentials []credential.Credential `json:"credentials"`
}

type passwordOutput struct {
	Body passwordResponse
}

type passwordResponse struct {
	Password string `json:"password"`
}

type deleteAllOutput struct {
	Body deleteAllResponse
}

type deleteAllResponse struct {
	Deleted int `json:"deleted"`
}

package sharing

import (
	"passvault/internal/domain/credential"
	"passvault/internal/domain/sharing"
)

type createInput struct {
	Body createRequest
}

type createRequest struct {
	CredentialID string `json:"credential_id" format:"uuid" doc:"Credential to offer"`
	To           string `json:"to" minLength:"1" doc:"Recipient login or email"`
}

type invitationInput struct {
	ID string `path:"id" format:"uuid" doc:"Invitation id"`
}

type invitationOutput struct {
	Body sharing.Invitation
}

type sharedListOutput struct {
	Body sharedListResponse
}

type sharedListResponse struct {
	Items []sharing.SharedItem `json:"items"`
}

type acceptOutput struct {
	Body credential.Credential
}

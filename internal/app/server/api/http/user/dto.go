package user

type registerInput struct {
	Body RegisterRequest
}

type RegisterRequest struct {
	Login    string `json:"login" minLength:"3" maxLength:"32" doc:"Account login"`
	Email    string `json:"email,omitempty" doc:"Optional email, lets others share with you by address"`
	Password string `json:"password" minLength:"1" doc:"Account password"`
}

type registerOutput struct {
	Body RegisterResponse
}

type RegisterResponse struct {
	ID     int    `json:"user_id"`
	Status string `json:"status"`
}

type loginInput struct {
	Body LoginRequest
}

type LoginRequest struct {
	Login    string `json:"login" minLength:"1"`
	Password string `json:"password" minLength:"1"`
}

type loginOutput struct {
	Body LoginResponse
}

type LoginResponse struct {
	Token  string `json:"token"`
	Status string `json:"status"`
}

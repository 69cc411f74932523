package model

import "encoding/json"

// User is the identity snapshot returned by the server.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Credentials is the login request body.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration is the register request body.
type Registration struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResult is the payload of a successful login or registration.
// Some deployments return the user at the top level, others nest it under
// "user"; UnmarshalJSON accepts both.
type AuthResult struct {
	User        User   `json:"user"`
	AccessToken string `json:"accessToken,omitempty"`
}

func (r *AuthResult) UnmarshalJSON(data []byte) error {
	var wrapped struct {
		User        *User  `json:"user"`
		AccessToken string `json:"accessToken"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return err
	}
	r.AccessToken = wrapped.AccessToken
	if wrapped.User != nil {
		r.User = *wrapped.User
		return nil
	}
	return json.Unmarshal(data, &r.User)
}

package service

type SignupInput struct {
	FirstName       string
	LastName        string
	Email           string
	PhoneNumber     string
	Address         string
	Password        string
	ConfirmPassword string
}

type LoginInput struct {
	Identifier string
	Password   string
}

type LoginResult struct {
	AccessToken string
	ExpiresIn   int64
}

type CompleteRecoveryInput struct {
	Identifier      string
	Code            string
	NewPassword     string
	ConfirmPassword string
}

type VerifyResult struct {
	// InvestorID is set when this verification completed onboarding and the
	// public identifier was assigned.
	InvestorID string
}

package port

// NicknameGenerator produces candidate nicknames. Candidates carry no
// uniqueness guarantee; the registration flow is responsible for
// collision handling.
type NicknameGenerator interface {
	Generate() string
}

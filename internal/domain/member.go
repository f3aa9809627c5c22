package domain

// CurrentUserAlias always resolves to the current user, whatever their name.
const CurrentUserAlias = "me"

// Member is someone in the study group.
type Member struct {
	ID        MemberID `json:"id"`
	Name      string   `json:"name"`
	Email     string   `json:"email,omitempty"`
	AvatarURL string   `json:"avatar_url,omitempty"`
}

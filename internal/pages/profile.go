package pages

import (
	"sync"
	"time"

	"strade-dashboard/internal/entity"
	"strade-dashboard/internal/session"
)

// ProfileInfo holds the editable basic profile fields.
type ProfileInfo struct {
	Name             string `json:"name"`
	Email            string `json:"email"`
	Phone            string `json:"phone"`
	Country          string `json:"country"`
	MemberSince      string `json:"member_since"`
	ActivationStatus string `json:"activation_status"`
	ActivationCode   string `json:"activation_code"`
	LastLogin        string `json:"last_login"`
	AvatarURL        string `json:"avatar_url"`
}

// Contact is one contact channel row.
type Contact struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Value   string `json:"value"`
	Primary bool   `json:"primary"`
}

func (c Contact) EntityID() string { return c.ID }

// KYCItem is one verification checklist entry.
type KYCItem struct {
	ID     string `json:"id"`
	Label  string `json:"label"`
	Status string `json:"status"`
	State  string `json:"state"` // verified or pending
}

// ProfileState is the render snapshot of the profile page.
type ProfileState struct {
	Profile            ProfileInfo `json:"profile"`
	Contacts           []Contact   `json:"contacts"`
	KYCChecklist       []KYCItem   `json:"kyc_checklist"`
	LastPasswordUpdate string      `json:"last_password_update"`
}

// ProfilePage manages the account profile, contact channels, the KYC
// checklist and the password form.
type ProfilePage struct {
	basePage

	contacts *entity.Store[Contact]

	mu                 sync.RWMutex
	profile            ProfileInfo
	kyc                []KYCItem
	lastPasswordUpdate string
}

// NewProfilePage creates the page with the demo profile.
func NewProfilePage() *ProfilePage {
	profile := ProfileInfo{
		Name:             "Alya Prananda",
		Email:            "alya.prananda@strade.ai",
		Phone:            "+62 812-3456-7890",
		Country:          "Indonesia",
		MemberSince:      "12 Februari 2024",
		ActivationStatus: "Active",
		ActivationCode:   "INVITE-9XQ4",
		LastLogin:        "06 November 2025, 08:15 WIB",
	}

	contactSeed := []Contact{
		{ID: "email", Type: "Email", Value: profile.Email, Primary: true},
		{ID: "phone", Type: "Telepon", Value: profile.Phone, Primary: true},
	}

	contacts := entity.NewStore(entity.Config[Contact]{
		Fields: []entity.FieldSpec{
			{Name: "type", Label: "Type", Required: true},
			{Name: "value", Label: "Value", Required: true},
		},
		IDField: "type",
		Decode: func(id string, values map[string]interface{}) Contact {
			return Contact{
				ID:    id,
				Type:  values["type"].(string),
				Value: values["value"].(string),
			}
		},
		ToForm: func(c Contact) entity.FormValues {
			return entity.FormValues{"type": c.Type, "value": c.Value}
		},
	}, contactSeed)

	return &ProfilePage{
		basePage: basePage{key: "profile", title: "Profile"},
		contacts: contacts,
		profile:  profile,
		kyc: []KYCItem{
			{ID: "identity", Label: "Identitas Pribadi", Status: "Sudah terverifikasi", State: "verified"},
			{ID: "face", Label: "Verifikasi Wajah", Status: "Sudah terverifikasi", State: "verified"},
			{ID: "address", Label: "Alamat Domisili", Status: "Menunggu konfirmasi", State: "pending"},
		},
		lastPasswordUpdate: "Belum pernah diperbarui",
	}
}

// Contacts exposes the contact collection for form operations.
func (p *ProfilePage) Contacts() *entity.Store[Contact] { return p.contacts }

// UpdateProfile replaces the editable basic fields, leaving the read-only
// account metadata untouched.
func (p *ProfilePage) UpdateProfile(info ProfileInfo) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.profile.Name = info.Name
	p.profile.Email = info.Email
	p.profile.Phone = info.Phone
	p.profile.Country = info.Country
	p.profile.AvatarURL = info.AvatarURL
}

// ChangePassword validates and applies a password change. The demo keeps no
// password state beyond the update timestamp.
func (p *ProfilePage) ChangePassword(current, newPassword, confirm string) error {
	if newPassword == "" {
		return session.SessionError{Code: "PASSWORD_REQUIRED", Message: "new password is required"}
	}
	if newPassword != confirm {
		return session.SessionError{Code: "PASSWORD_MISMATCH", Message: "password confirmation does not match"}
	}

	p.mu.Lock()
	p.lastPasswordUpdate = time.Now().Format("02 January 2006, 15:04")
	p.mu.Unlock()
	return nil
}

// SetKYCState updates one checklist entry.
func (p *ProfilePage) SetKYCState(id, status, state string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i := range p.kyc {
		if p.kyc[i].ID == id {
			p.kyc[i].Status = status
			p.kyc[i].State = state
			return
		}
	}
}

// State builds the page's render snapshot.
func (p *ProfilePage) State() ProfileState {
	p.mu.RLock()
	state := ProfileState{
		Profile:            p.profile,
		KYCChecklist:       append([]KYCItem(nil), p.kyc...),
		LastPasswordUpdate: p.lastPasswordUpdate,
	}
	p.mu.RUnlock()

	state.Contacts = p.contacts.List()
	return state
}

package dto

// PreferenceRequest updates a single preference set (user or system).
type PreferenceRequest struct {
	VoiceOnNewOrder *bool `json:"voice_on_new_order" validate:"required"`
}

type PreferenceResponse struct {
	VoiceOnNewOrder bool `json:"voice_on_new_order"`
}

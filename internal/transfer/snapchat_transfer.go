package transfer

type SnapMedia struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	AdAccountID string `json:"ad_account_id"`
}

type SnapMediaRequest struct {
	Media []SnapMedia `json:"media"`
}

type SnapMediaResponse struct {
	RequestStatus string `json:"request_status"`
	Media         []struct {
		SubRequestStatus string    `json:"sub_request_status"`
		Media            SnapMedia `json:"media"`
	} `json:"media"`
}

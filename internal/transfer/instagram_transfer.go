package transfer

type GraphObject struct {
	ID     string `json:"id"`
	PostID string `json:"post_id,omitempty"`
}

type InstagramContainerRequest struct {
	ImageURL    string `json:"image_url"`
	Caption     string `json:"caption"`
	AccessToken string `json:"access_token"`
}

type InstagramPublishRequest struct {
	CreationID  string `json:"creation_id"`
	AccessToken string `json:"access_token"`
}

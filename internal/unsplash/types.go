package unsplash

// Photo 上游照片条目
type Photo struct {
	ID             string     `json:"id"`
	Width          int        `json:"width"`
	Height         int        `json:"height"`
	Description    string     `json:"description"`
	AltDescription string     `json:"alt_description"`
	URLs           PhotoURLs  `json:"urls"`
	Links          PhotoLinks `json:"links"`
	User           *PhotoUser `json:"user,omitempty"`
}

// PhotoURLs 照片各尺寸的 URL
type PhotoURLs struct {
	Raw     string `json:"raw"`
	Full    string `json:"full"`
	Regular string `json:"regular"`
	Small   string `json:"small"`
	Thumb   string `json:"thumb"`
}

// PhotoLinks 照片相关链接
type PhotoLinks struct {
	HTML     string `json:"html"`
	Download string `json:"download"`
}

// PhotoUser 照片作者信息
type PhotoUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
}

// SearchResult 搜索响应
type SearchResult struct {
	Total      int      `json:"total"`
	TotalPages int      `json:"total_pages"`
	Results    []*Photo `json:"results"`
}

// Collection 上游策展合集
type Collection struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	TotalPhotos int    `json:"total_photos"`
	CoverPhoto  *Photo `json:"cover_photo,omitempty"`
}

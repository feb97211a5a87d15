package photos

import (
	"github.com/rehiko/picstash/database/models"
	"github.com/rehiko/picstash/internal/unsplash"
)

// 展示来源标记
const (
	SourceUpstream = "upstream"
	SourceSaved    = "saved"
)

// DisplayPhoto 照片的统一展示表示
// 上游照片和本地已保存的图片行都归一到这个形状，前端无需区分来源
type DisplayPhoto struct {
	Source      string `json:"source"`
	ID          string `json:"id"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	URLRegular  string `json:"url_regular"`
	URLSmall    string `json:"url_small"`
	Description string `json:"description"`
	AltText     string `json:"alt_text"`
	AuthorName  string `json:"author_name,omitempty"`
	AuthorLink  string `json:"author_link,omitempty"`
}

// fromUpstream 上游照片归一化
// 描述优先取 description，缺失时回退 alt_description
func fromUpstream(p *unsplash.Photo) DisplayPhoto {
	desc := p.Description
	if desc == "" {
		desc = p.AltDescription
	}

	dp := DisplayPhoto{
		Source:      SourceUpstream,
		ID:          p.ID,
		Width:       p.Width,
		Height:      p.Height,
		URLRegular:  p.URLs.Regular,
		URLSmall:    p.URLs.Small,
		Description: desc,
		AltText:     resolveAltText(desc),
	}
	if p.User != nil {
		dp.AuthorName = p.User.Name
	}
	if p.Links.HTML != "" {
		dp.AuthorLink = p.Links.HTML
	}
	return dp
}

// fromSaved 本地图片行归一化
func fromSaved(img *models.Image) DisplayPhoto {
	return DisplayPhoto{
		Source:      SourceSaved,
		ID:          img.ID,
		Width:       img.Width,
		Height:      img.Height,
		URLRegular:  img.URLRegular,
		URLSmall:    img.URLSmall,
		Description: img.Description,
		AltText:     resolveAltText(img.Description),
	}
}

func resolveAltText(description string) string {
	if description == "" {
		return "Photo"
	}
	return description
}

// ResolveDisplayURL 选择展示 URL，优先常规尺寸
func (dp DisplayPhoto) ResolveDisplayURL() string {
	if dp.URLRegular != "" {
		return dp.URLRegular
	}
	return dp.URLSmall
}

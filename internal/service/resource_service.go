package service

import (
	"context"
)

// ResourceSuggestion 备考资源建议（静态目录，只读）
type ResourceSuggestion struct {
	Subject     string `json:"subject"`
	Title       string `json:"title"`
	Level       string `json:"level"` // Başlangıç | Orta | İleri
	Description string `json:"description"`
}

// ResourceService 资源建议业务接口
type ResourceService interface {
	// Suggest 按赛道与总体水平筛选资源，每科目最多 2 条
	Suggest(ctx context.Context, track string, level int) []ResourceSuggestion
}

type resourceService struct{}

// NewResourceService 创建 ResourceService 实例
func NewResourceService() ResourceService {
	return &resourceService{}
}

// 难度档位标签
const (
	resourceTierBeginner = "Başlangıç"
	resourceTierMid      = "Orta"
	resourceTierAdvanced = "İleri"
)

// resourcesBySubject 按科目组织的静态资源目录
var resourcesBySubject = map[string][]ResourceSuggestion{
	"Matematik": {
		{Subject: "Matematik", Title: "Antrenmanlarla Matematik", Level: resourceTierBeginner, Description: "Temel kazanımlar için."},
		{Subject: "Matematik", Title: "345 Yayınları TYT", Level: resourceTierMid, Description: "Yeni nesil soru odaklı."},
		{Subject: "Matematik", Title: "Acil Yayınları AYT", Level: resourceTierAdvanced, Description: "Seçkin ileri düzey set."},
	},
	"Türkçe": {
		{Subject: "Türkçe", Title: "Türkçe Kolay Seri", Level: resourceTierBeginner, Description: "Paragraf temelleri."},
		{Subject: "Türkçe", Title: "Merkez Yayınları", Level: resourceTierMid, Description: "Dengeli zorluk."},
		{Subject: "Türkçe", Title: "Bilgi Sarmal Denemeleri", Level: resourceTierAdvanced, Description: "Yoğun deneme pratiği."},
	},
	"Fizik": {
		{Subject: "Fizik", Title: "Palme Temel Set", Level: resourceTierBeginner, Description: "Konu anlatım + temel."},
		{Subject: "Fizik", Title: "3D Yayınları", Level: resourceTierMid, Description: "ÖSYM tarzı sorular."},
		{Subject: "Fizik", Title: "Branş Denemeleri", Level: resourceTierAdvanced, Description: "Hız ve seviye ölçümü."},
	},
	"Kimya": {
		{Subject: "Kimya", Title: "Palme Temel Set", Level: resourceTierBeginner, Description: "Temel kavramlar."},
		{Subject: "Kimya", Title: "Bilgi Sarmal", Level: resourceTierMid, Description: "Orta seviye bankası."},
		{Subject: "Kimya", Title: "Palme İleri", Level: resourceTierAdvanced, Description: "Zorlayıcı ve kapsamlı."},
	},
	"Biyoloji": {
		{Subject: "Biyoloji", Title: "Palme Temel", Level: resourceTierBeginner, Description: "Temel seviye."},
		{Subject: "Biyoloji", Title: "3D Yayınları", Level: resourceTierMid, Description: "Seçili özgün sorular."},
		{Subject: "Biyoloji", Title: "Branş Denemeleri", Level: resourceTierAdvanced, Description: "Sınav temposu."},
	},
}

func (s *resourceService) Suggest(_ context.Context, track string, level int) []ResourceSuggestion {
	tier := resourceTierMid
	switch {
	case level <= 2:
		tier = resourceTierBeginner
	case level >= 4:
		tier = resourceTierAdvanced
	}

	subjects := []string{"Matematik", "Türkçe"}
	if track == "sayisal" {
		subjects = []string{"Matematik", "Fizik", "Kimya", "Biyoloji"}
	}

	list := make([]ResourceSuggestion, 0, len(subjects)*2)
	for _, subject := range subjects {
		count := 0
		for _, r := range resourcesBySubject[subject] {
			if r.Level != tier {
				continue
			}
			list = append(list, r)
			count++
			if count == 2 {
				break
			}
		}
	}
	return list
}

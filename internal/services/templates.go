package services

import (
	"sort"

	"taskflow/internal/models"
)

// ContentTemplate pre-fills the new content form.
type ContentTemplate struct {
	ID                  string
	Label               string
	Platform            string
	DefaultTitle        string
	DefaultDescription  string
	DefaultCreatorStage models.CreatorStage
}

var contentTemplates = map[string]ContentTemplate{
	"tiktok_tip": {
		ID:                  "tiktok_tip",
		Label:               "TikTok: quick tip",
		Platform:            "tiktok",
		DefaultTitle:        "Quick tip: ",
		DefaultDescription:  "Hook (0-3s):\nTip:\nExample:\nCall to action:",
		DefaultCreatorStage: models.StageIdea,
	},
	"tiktok_storytime": {
		ID:                  "tiktok_storytime",
		Label:               "TikTok: storytime",
		Platform:            "tiktok",
		DefaultTitle:        "Storytime: ",
		DefaultDescription:  "Hook:\nContext:\nTwist:\nPunchline:",
		DefaultCreatorStage: models.StageIdea,
	},
	"reel_facecam": {
		ID:                  "reel_facecam",
		Label:               "Instagram Reel: facecam",
		Platform:            "instagram",
		DefaultTitle:        "Reel: ",
		DefaultDescription:  "Hook:\nKey message:\nOn-screen text:\nCaption:",
		DefaultCreatorStage: models.StageIdea,
	},
	"shorts_tuto": {
		ID:                  "shorts_tuto",
		Label:               "YouTube Shorts: tutorial",
		Platform:            "youtube",
		DefaultTitle:        "How to ",
		DefaultDescription:  "Problem:\nSteps (1-3):\nResult:\nCall to action:",
		DefaultCreatorStage: models.StageIdea,
	},
	"yt_long_tuto": {
		ID:                  "yt_long_tuto",
		Label:               "YouTube: long tutorial",
		Platform:            "youtube",
		DefaultTitle:        "Complete guide: ",
		DefaultDescription:  "Intro:\nChapters:\nDemo:\nRecap:\nEnd screen:",
		DefaultCreatorStage: models.StageIdea,
	},
}

var contentTemplateList = func() []ContentTemplate {
	list := make([]ContentTemplate, 0, len(contentTemplates))
	for _, tpl := range contentTemplates {
		list = append(list, tpl)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list
}()

func ContentTemplateByID(id string) (ContentTemplate, bool) {
	tpl, ok := contentTemplates[id]
	return tpl, ok
}

// ContentTemplates returns a copy of the table ordered by id.
func ContentTemplates() []ContentTemplate {
	out := make([]ContentTemplate, len(contentTemplateList))
	copy(out, contentTemplateList)
	return out
}

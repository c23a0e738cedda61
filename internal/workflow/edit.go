package workflow

import (
	"fmt"
	"slices"
	"strings"

	"newsdesk/internal/model"
)

// ApplyPatch edits the article's metadata. Locked articles, those referenced
// by a roundup, cannot be edited.
func ApplyPatch(a *model.Article, p model.ArticlePatch, locked bool) error {
	if locked {
		return model.Reject(model.ErrValidation, "Article is locked",
			"This article is part of a roundup and cannot be edited.")
	}
	if p.Empty() {
		return model.Reject(model.ErrValidation, "Nothing to update", "")
	}
	if p.Title != nil {
		title := strings.TrimSpace(*p.Title)
		if title == "" {
			return model.Reject(model.ErrValidation, "Title is required", "")
		}
		a.Title = title
	}
	if p.Excerpt != nil {
		a.Excerpt = strings.TrimSpace(*p.Excerpt)
	}
	if p.NewsType != nil {
		a.NewsType = strings.TrimSpace(*p.NewsType)
	}
	if p.SubType != nil {
		a.SubType = slices.DeleteFunc(slices.Clone(*p.SubType), func(s string) bool { return strings.TrimSpace(s) == "" })
	}
	if p.Tags != nil {
		tags := NormalizeTags(*p.Tags)
		if len(tags) > model.MaxTags {
			return model.Reject(model.ErrValidation, "Too many tags",
				fmt.Sprintf("An article can carry at most %d tags.", model.MaxTags))
		}
		a.Tags = tags
	}
	if p.IsBreaking != nil {
		a.IsBreaking = *p.IsBreaking
	}
	return nil
}

// OverrideSafety sets a human tier. The auto-assigned tier is remembered the
// first time it is overridden.
func OverrideSafety(a *model.Article, score int) error {
	if score < model.MinSafetyScore || score > model.MaxSafetyScore {
		return model.Reject(model.ErrValidation, "Invalid safety score",
			fmt.Sprintf("Safety score must be between %d and %d.", model.MinSafetyScore, model.MaxSafetyScore))
	}
	if score == a.SafetyScore {
		return model.Reject(model.ErrValidation, "Safety score unchanged",
			fmt.Sprintf("The article already has tier %d.", score))
	}
	if !a.Overridden() {
		a.OriginalSafetyScore = a.SafetyScore
	}
	a.SafetyScore = score
	return nil
}

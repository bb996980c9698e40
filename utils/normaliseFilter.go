package utils

import (
	"strings"

	"ctfarena/model"
)

var categoryAliases = map[string]model.Category{
	"crypto":       model.CategoryCrypto,
	"cryptography": model.CategoryCrypto,
	"cryto":        model.CategoryCrypto,
	"crpyto":       model.CategoryCrypto,

	"pwn":          model.CategoryPwn,
	"pwnable":      model.CategoryPwn,
	"binary":       model.CategoryPwn,
	"exploitation": model.CategoryPwn,

	"web":    model.CategoryWeb,
	"webapp": model.CategoryWeb,

	"reverse":     model.CategoryReverse,
	"rev":         model.CategoryReverse,
	"re":          model.CategoryReverse,
	"reversing":   model.CategoryReverse,
	"reverse eng": model.CategoryReverse,

	"forensics": model.CategoryForensics,
	"forensic":  model.CategoryForensics,
	"stego":     model.CategoryForensics,
}

var difficultyAliases = map[string]model.Difficulty{
	"easy":     model.DifficultyEasy,
	"beginner": model.DifficultyEasy,
	"baby":     model.DifficultyEasy,

	"medium": model.DifficultyMedium,
	"med":    model.DifficultyMedium,
	"normal": model.DifficultyMedium,

	"hard":   model.DifficultyHard,
	"insane": model.DifficultyHard,
}

// NormalizeCategory maps user input onto a known category. The second result
// is false when the input is neither "all" nor a recognised category.
func NormalizeCategory(raw string) (string, bool) {
	key := strings.ToLower(strings.TrimSpace(raw))
	if key == "" || key == model.FilterAll {
		return model.FilterAll, true
	}
	if c, ok := categoryAliases[key]; ok {
		return string(c), true
	}
	return model.FilterAll, false
}

// NormalizeDifficulty is the difficulty counterpart of NormalizeCategory.
func NormalizeDifficulty(raw string) (string, bool) {
	key := strings.ToLower(strings.TrimSpace(raw))
	if key == "" || key == model.FilterAll {
		return model.FilterAll, true
	}
	if d, ok := difficultyAliases[key]; ok {
		return string(d), true
	}
	return model.FilterAll, false
}

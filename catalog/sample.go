package catalog

import "ctfarena/model"

// SampleChallenges returns the demo catalog seeded when no database is configured.
func SampleChallenges() []model.Challenge {
	return []model.Challenge{
		{
			ID:          1,
			Title:       "Baby's First Hash",
			Category:    model.CategoryCrypto,
			Difficulty:  model.DifficultyEasy,
			Points:      150,
			Description: "Can you crack this simple hash?\n\nHash: 5d41402abc4b2a76b9719d911017c592\n\nHint: It's a common English word.",
			Tags:        []string{"crypto", "hash", "beginner"},
			Files:       []model.File{{Name: "hash.txt", URL: "#"}},
			Hints: []string{
				"Try looking up MD5 hash crackers online",
				"The word is 5 letters long",
			},
		},
		{
			ID:          2,
			Title:       "Buffer Overflow 101",
			Category:    model.CategoryPwn,
			Difficulty:  model.DifficultyMedium,
			Points:      300,
			Description: "Classic buffer overflow challenge. Can you get a shell?\n\nConnect to: nc ctf.arena 1337",
			Tags:        []string{"pwn", "buffer-overflow", "binary"},
			Files:       []model.File{{Name: "vuln.c", URL: "#"}, {Name: "vuln", URL: "#"}},
			Hints: []string{
				"Check the buffer size carefully",
				"You'll need to overwrite the return address",
			},
		},
		{
			ID:          3,
			Title:       "SQL Injection Paradise",
			Category:    model.CategoryWeb,
			Difficulty:  model.DifficultyEasy,
			Points:      200,
			Description: "A classic SQL injection vulnerability. Can you extract the admin password?\n\nURL: https://ctf.arena/login",
			Tags:        []string{"web", "sql-injection", "database"},
			Hints: []string{
				"Try basic SQL injection payloads",
				"Look for ways to bypass the login",
			},
		},
		{
			ID:          4,
			Title:       "Reverse Me Please",
			Category:    model.CategoryReverse,
			Difficulty:  model.DifficultyHard,
			Points:      500,
			Description: "A simple reverse engineering challenge. Find the hidden flag in this binary.",
			Tags:        []string{"reverse", "binary", "analysis"},
			Files:       []model.File{{Name: "mystery.exe", URL: "#"}},
			Hints: []string{
				"Use a disassembler like IDA or Ghidra",
				"The flag is XOR encoded",
			},
		},
		{
			ID:          5,
			Title:       "Hidden in Plain Sight",
			Category:    model.CategoryForensics,
			Difficulty:  model.DifficultyMedium,
			Points:      250,
			Description: "Something is hidden in this image. Can you find it?",
			Tags:        []string{"forensics", "steganography", "image"},
			Files:       []model.File{{Name: "image.png", URL: "#"}},
			Hints: []string{
				"Try examining the image metadata",
				"Steganography tools might be helpful",
			},
		},
		{
			ID:          6,
			Title:       "Caesar's Secret",
			Category:    model.CategoryCrypto,
			Difficulty:  model.DifficultyEasy,
			Points:      100,
			Description: "Julius Caesar had a secret message. Can you decode it?\n\nMessage: WKH TXLFN EURZQ IRA MXPSV RYHU WKH ODCB GRJ",
			Tags:        []string{"crypto", "classical", "caesar"},
			Hints: []string{
				"It's a Caesar cipher",
				"Try different shift values",
			},
		},
	}
}

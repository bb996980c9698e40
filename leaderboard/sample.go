package leaderboard

import "ctfarena/model"

func SampleGlobal() []model.LeaderboardEntry {
	return []model.LeaderboardEntry{
		{Rank: 1, Team: "CyberNinjas", Score: 15750, Avatar: "🥷", Solved: 18, LastSolve: "2 minutes ago"},
		{Rank: 2, Team: "HackTheBox", Score: 14200, Avatar: "📦", Solved: 16, LastSolve: "15 minutes ago"},
		{Rank: 3, Team: "Binary Bandits", Score: 12900, Avatar: "🏴‍☠️", Solved: 15, LastSolve: "28 minutes ago"},
		{Rank: 4, Team: "Root Access", Score: 11500, Avatar: "🔓", Solved: 14, LastSolve: "45 minutes ago"},
		{Rank: 5, Team: "Script Kiddies", Score: 10200, Avatar: "👶", Solved: 12, LastSolve: "1 hour ago"},
		{Rank: 6, Team: "Null Pointer", Score: 9800, Avatar: "🎯", Solved: 11, LastSolve: "1 hour ago"},
		{Rank: 7, Team: "Buffer Overflow", Score: 8900, Avatar: "💥", Solved: 10, LastSolve: "2 hours ago"},
		{Rank: 8, Team: "Social Engineers", Score: 7600, Avatar: "🎭", Solved: 9, LastSolve: "2 hours ago"},
		{Rank: 9, Team: "Crypto Crackers", Score: 6800, Avatar: "🔐", Solved: 8, LastSolve: "3 hours ago"},
		{Rank: 10, Team: "Web Warriors", Score: 5900, Avatar: "🌐", Solved: 7, LastSolve: "3 hours ago"},
	}
}

func SampleFriends() []model.LeaderboardEntry {
	return []model.LeaderboardEntry{
		{Rank: 1, Team: "My Team", Score: 8500, Avatar: "⭐", Solved: 9, LastSolve: "30 minutes ago"},
		{Rank: 2, Team: "Buddy Hackers", Score: 6200, Avatar: "👯", Solved: 7, LastSolve: "1 hour ago"},
		{Rank: 3, Team: "College Crew", Score: 4800, Avatar: "🎓", Solved: 6, LastSolve: "2 hours ago"},
	}
}

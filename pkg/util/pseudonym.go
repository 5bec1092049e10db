package util

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

var pseudonymPrefixes = []string{
	"Weeb", "Otaku", "Chibi", "Kawaii", "Senpai", "Kouhai", "Tsundere", "Yandere",
	"Kuudere", "Dandere", "Waifu", "Husbando", "Sensei", "Ninja", "Samurai", "Shinigami",
	"Gundam", "Mecha", "Isekai", "Shounen", "Shoujo", "Seinen", "Dragon", "Demon",
	"Vampire", "Neko", "Inu", "Sakura", "Ramen", "Baka", "Sugoi", "Filler",
}

var pseudonymSuffixes = []string{
	"Lord", "King", "Queen", "Master", "Slayer", "Hunter", "Enjoyer", "Connoisseur",
	"Critic", "Chan", "Kun", "Sama", "Warrior", "Hero", "Villain", "Protagonist",
	"Sidekick", "Rival", "Apprentice", "Survivor", "Skipper", "Hater", "Simp", "Veteran",
}

func randomIndex(n int) int {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0
	}
	return int(v.Int64())
}

// GeneratePseudonym returns names like "TsundereSlayer427".
func GeneratePseudonym() string {
	return fmt.Sprintf("%s%s%d",
		pseudonymPrefixes[randomIndex(len(pseudonymPrefixes))],
		pseudonymSuffixes[randomIndex(len(pseudonymSuffixes))],
		100+randomIndex(900),
	)
}

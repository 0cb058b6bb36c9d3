package service

import (
	"fmt"
	"math/rand"
)

// firstNames seeds random username generation. Candidates look like
// "oliver4821": a lowercase first name plus a 4-digit suffix.
var firstNames = []string{
	"alice", "amelia", "arthur", "ava", "benjamin", "carlos", "charlie",
	"chloe", "daniel", "david", "diego", "elena", "elijah", "emma",
	"ethan", "felix", "george", "grace", "hannah", "harry", "henry",
	"isabella", "jack", "james", "jasmine", "john", "julia", "leo",
	"liam", "lily", "lucas", "luna", "maria", "mason", "mia", "michael",
	"nina", "noah", "oliver", "olivia", "oscar", "paul", "rosa", "ruby",
	"samuel", "sofia", "sophie", "theo", "thomas", "victor", "william",
	"zoe",
}

func randomUsername() string {
	name := firstNames[rand.Intn(len(firstNames))]
	return fmt.Sprintf("%s%04d", name, rand.Intn(10000))
}

package roster

import (
	"sort"

	"gamemaster/internal/random"
)

type nameTable struct {
	Male   []string
	Female []string
	Last   []string
}

const defaultNationality = "Inconnue"

var nameTables = map[string]nameTable{
	"Coréenne": {
		Male:   []string{"Gi-hun", "Sang-woo", "Il-nam", "Deok-su", "Jun-ho", "Min-su", "Dae-ho"},
		Female: []string{"Sae-byeok", "Ji-yeong", "Mi-nyeo", "Hyun-ju", "Se-mi", "Jun-hee"},
		Last:   []string{"Seong", "Cho", "Oh", "Jang", "Hwang", "Kang", "Kim", "Park", "Lee"},
	},
	"Française": {
		Male:   []string{"Lucas", "Hugo", "Louis", "Gabriel", "Arthur", "Jules", "Mathis"},
		Female: []string{"Emma", "Léa", "Chloé", "Manon", "Camille", "Inès", "Jade"},
		Last:   []string{"Martin", "Bernard", "Dubois", "Thomas", "Robert", "Petit", "Durand", "Moreau"},
	},
	"Américaine": {
		Male:   []string{"James", "Michael", "Ethan", "Noah", "Logan", "Mason"},
		Female: []string{"Olivia", "Ava", "Emily", "Madison", "Harper", "Abigail"},
		Last:   []string{"Smith", "Johnson", "Williams", "Brown", "Miller", "Davis", "Wilson"},
	},
	"Japonaise": {
		Male:   []string{"Haruto", "Ren", "Sota", "Yuto", "Kaito", "Riku"},
		Female: []string{"Yui", "Hina", "Aoi", "Sakura", "Mio", "Rin"},
		Last:   []string{"Sato", "Suzuki", "Takahashi", "Tanaka", "Watanabe", "Ito"},
	},
	"Brésilienne": {
		Male:   []string{"João", "Pedro", "Thiago", "Rafael", "Bruno", "Diego"},
		Female: []string{"Ana", "Beatriz", "Larissa", "Mariana", "Juliana", "Camila"},
		Last:   []string{"Silva", "Santos", "Oliveira", "Souza", "Lima", "Pereira"},
	},
	"Pakistanaise": {
		Male:   []string{"Ali", "Ahmed", "Bilal", "Hamza", "Usman"},
		Female: []string{"Ayesha", "Fatima", "Zainab", "Sana", "Hira"},
		Last:   []string{"Khan", "Abdul", "Hussain", "Malik", "Qureshi"},
	},
	"Allemande": {
		Male:   []string{"Lukas", "Felix", "Jonas", "Leon", "Paul"},
		Female: []string{"Mia", "Hannah", "Lena", "Lea", "Marie"},
		Last:   []string{"Müller", "Schmidt", "Schneider", "Fischer", "Weber", "Becker"},
	},
}

var defaultNames = nameTable{
	Male:   []string{"Alex", "Sam", "Charlie", "Max", "Robin"},
	Female: []string{"Alex", "Sam", "Charlie", "Eden", "Robin"},
	Last:   []string{"Doe", "Player", "Anonyme", "Inconnu"},
}

var portraits = []string{
	"portrait-short-dark", "portrait-short-light", "portrait-long-dark", "portrait-long-light",
	"portrait-bald", "portrait-curly", "portrait-ponytail", "portrait-glasses", "portrait-beard",
	"portrait-braids", "portrait-bun", "portrait-mohawk",
}

var uniforms = []string{
	"tracksuit-green", "tracksuit-green-worn", "tracksuit-green-dark", "tracksuit-teal",
	"tracksuit-green-zip", "tracksuit-green-hooded",
}

var nationalities = func() []string {
	out := make([]string, 0, len(nameTables))
	for n := range nameTables {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}()

// Nationalities lists the nationalities with dedicated name tables, sorted.
func Nationalities() []string {
	return nationalities
}

// NameFor assembles "First Last" for a nationality and gender. Unknown
// nationalities draw from a generic table.
func NameFor(src random.Source, nationality, gender string) string {
	table, ok := nameTables[nationality]
	if !ok {
		table = defaultNames
	}
	first := table.Male
	if gender == "F" {
		first = table.Female
	}
	return random.Pick(src, first) + " " + random.Pick(src, table.Last)
}

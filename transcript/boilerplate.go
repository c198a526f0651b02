package transcript

import "golang.org/x/text/cases"

// BoilerplateVersion identifies the phrase list below. Bump it whenever the
// list changes so exports can be traced back to the filter that produced them.
const BoilerplateVersion = "2"

// Boilerplate lists stock acknowledgements that carry no feedback. Matching is
// exact on the cleaned body, ignoring case only: "Thanks" and "Thanks." are
// different entries.
var Boilerplate = []string{
	"Thank you.",
	"Thank you!",
	"Thank you",
	"Thank you very much.",
	"Thank you so much!",
	"Thanks.",
	"Thanks!",
	"Thanks",
	"Thanks a lot!",
	"No, thanks.",
	"No thanks.",
	"No, thank you.",
	"No thank you",
	"Please send it over.",
	"Yes, please.",
	"Yes please",
	"Ok.",
	"Ok",
	"Okay.",
	"Okay",
	"Got it, thanks.",
	"Great, thanks!",
	"Perfect, thank you.",
	"That's all.",
	"That's all, thanks.",
	"No, that's all.",
}

var boilerplateSet = buildBoilerplateSet(Boilerplate)

func buildBoilerplateSet(phrases []string) map[string]struct{} {
	set := make(map[string]struct{}, len(phrases))
	for _, p := range phrases {
		set[foldKey(CleanBody(p))] = struct{}{}
	}
	return set
}

// IsBoilerplate reports whether a cleaned body is one of the stock phrases.
func IsBoilerplate(cleaned string) bool {
	_, ok := boilerplateSet[foldKey(cleaned)]
	return ok
}

func foldKey(s string) string {
	return cases.Fold().String(s)
}

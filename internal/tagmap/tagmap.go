// Package tagmap holds the static mapping from volunteer-page questions to
// VAN survey responses and activist codes. The id table mirrors the
// mapping sheet maintained by the state party and must not be reordered or
// deduplicated.
package tagmap

// Kind says which, if any, canvass call a resolved tag requires.
type Kind int

const (
	// KindNone means the question/response pair maps to nothing.
	KindNone Kind = iota
	// KindSurvey means a survey response should be applied.
	KindSurvey
	// KindActivistCode means an activist code should be applied.
	KindActivistCode
)

// Tag is the result of resolving a question/response pair. Exactly one of
// the three kinds holds; id fields outside the kind are zero.
type Tag struct {
	Kind           Kind
	QuestionID     int
	ResponseID     int
	ActivistCodeID int
}

// lawyerActivistCode is the one response id that is an activist code rather
// than a survey response.
const lawyerActivistCode = 4700612

type response struct {
	id         int
	questionID int // overrides the category question id when non-zero
}

type category struct {
	questionID int
	responses  map[string]response
}

// categories is the full question table. Response strings must match the
// ActionKit form values byte for byte, including "Urdu " with its trailing
// space. The two Native categories intentionally share response id 1529981.
var categories = map[string]category{
	"race": {
		questionID: 371853,
		responses: map[string]response{
			"African American or Black":                 {id: 1529977},
			"Asian":                                     {id: 1529978},
			"Hispanic or Latinx":                        {id: 1529979},
			"Middle Eastern or North African":           {id: 1529980},
			"Native American or Alaska Native":          {id: 1529981},
			"Native Hawaiian or Other Pacific Islander": {id: 1529981},
			"White":                                     {id: 1529982},
		},
	},
	"volunteer_opportunities": {
		questionID: 371846,
		responses: map[string]response{
			"Host an event":                    {id: 1549378},
			"Blockwalk":                        {id: 1529944},
			"Attend a local community meeting": {id: 1549389},
			"Data Entry":                       {id: 1529945},
			"House a staffer":                  {id: 1549387},
			"Make calls":                       {id: 1529943},
			"Text voters":                      {id: 1529940},
			"Register voters":                  {id: 1549384},
			// Poll watching lives under a different survey question than
			// the rest of the volunteer opportunities.
			"Serve as a poll watcher": {id: 1984071, questionID: 485979},
		},
	},
	"languages": {
		questionID: 371847,
		responses: map[string]response{
			"Other":                           {id: 1529970},
			"American Sign Language":          {id: 1529969},
			"Arabic":                          {id: 1529964},
			"Urdu ":                           {id: 1529964},
			"Hindi, Gujarati, Punjabi, other": {id: 1529963},
			"Tagalog":                         {id: 1529960},
			"Mandarin or Cantonese":           {id: 1529959},
			"Vietnamese":                      {id: 1529958},
			"Spanish":                         {id: 1529957},
		},
	},
	"identity": {
		questionID: 371853,
		responses: map[string]response{
			"LGBTQ+":                    {id: 1529994},
			"Disability":                {id: 1529995},
			"Veteran":                   {id: 1529996},
			"Youth":                     {id: 1529997},
			"Labor / Union":             {id: 1529998},
			"Student":                   {id: 1530002},
			"Teacher":                   {id: 1530003},
			"Lawyer/Legal Professional": {id: lawyerActivistCode},
		},
	},
}

// Resolve maps a question/response pair to at most one tag. Unknown
// questions and unknown responses within a known question both resolve to
// KindNone.
func Resolve(questionName, questionResponse string) Tag {
	cat, ok := categories[questionName]
	if !ok {
		return Tag{}
	}
	r, ok := cat.responses[questionResponse]
	if !ok {
		return Tag{}
	}
	if r.id == lawyerActivistCode {
		return Tag{Kind: KindActivistCode, ActivistCodeID: r.id}
	}
	questionID := cat.questionID
	if r.questionID != 0 {
		questionID = r.questionID
	}
	return Tag{Kind: KindSurvey, QuestionID: questionID, ResponseID: r.id}
}

package model

// IntentReport is the structured analysis of what a visitor is trying to
// achieve, inferred from their side of the conversation.
type IntentReport struct {
	UserInterest       string   `json:"user_interest" jsonschema_description:"Whether and how strongly the user is interested in the company, and the nature of that interest (exploratory, evaluative, transactional, partnership)"`
	Segments           []string `json:"segments" jsonschema_description:"The specific segments, products, or services the user asked about"`
	ActualRequirement  string   `json:"actual_requirement" jsonschema_description:"What the user is ultimately trying to achieve or understand"`
	UnmetNeeds         []string `json:"unmet_needs" jsonschema_description:"Expectations or services the user implied that the company does not appear to offer"`
	MetNeeds           []string `json:"met_needs" jsonschema_description:"Offerings that align with the user's queries and are likely already available"`
	AdditionalInsights []string `json:"additional_insights" jsonschema_description:"Notable behavioral signals such as comparison shopping, research phase, trust-building, or credibility checks"`
}

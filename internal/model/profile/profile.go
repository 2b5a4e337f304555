package profile

// 内置顾问角色 ID。
const (
	PokerBotID = "pokerbot"
	AnalystID  = "table-analyst"
)

// Profile captures an advisor persona exposed to the frontend. The system
// prompt stays server side.
type Profile struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Title          string `json:"title"`
	OpeningLine    string `json:"openingLine"`
	ExpectsScreen  bool   `json:"expectsScreen"`
	SystemPrompt   string `json:"-"`
	DefaultMessage string `json:"-"` // 用户消息为空时使用
	Fallback       string `json:"-"` // 模型返回空文本时使用
}

// Seed provides the two advisors served by the API.
func Seed() []Profile {
	return []Profile{
		{
			ID:             PokerBotID,
			Name:           "PokerBot",
			Title:          "Assistente di poker",
			OpeningLine:    "Ciao! Chiedimi qualsiasi cosa sul poker, puoi anche allegare uno screenshot del tavolo.",
			SystemPrompt:   "Sei PokerBot, un assistente AI esperto di poker. Rispondi in modo sintetico e chiaro, massimo 5-6 frasi. Non ripetere informazioni inutili, non scrivere troppo. Se non puoi rispondere, dillo chiaramente.",
			DefaultMessage: "Ciao, sono qui per parlare di poker.",
			Fallback:       "Nessuna risposta generata.",
		},
		{
			ID:            AnalystID,
			Name:          "Table Analyst",
			Title:         "Analisi strategica del tavolo",
			OpeningLine:   "Carica uno screenshot della tua partita e descrivi la situazione per ricevere consigli strategici.",
			ExpectsScreen: true,
			SystemPrompt:  "Sei un esperto di poker che analizza chat e screenshot per fornire consigli strategici.",
			Fallback:      "Nessun consiglio disponibile",
		},
	}
}

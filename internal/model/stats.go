package model

// Dashboard aggregates counters for the admin overview.
type Dashboard struct {
	Users struct {
		Total  int `json:"total"`
		Active int `json:"active"`
		Admins int `json:"admins"`
	} `json:"users"`
	Content struct {
		Total     int `json:"total"`
		Published int `json:"published"`
		Drafts    int `json:"drafts"`
	} `json:"content"`
	Templates struct {
		Total   int `json:"total"`
		Default int `json:"default"`
		Custom  int `json:"custom"`
	} `json:"templates"`
	TopLanguages []LanguageCount `json:"top_languages"`
	TopTones     []ToneCount     `json:"top_tones"`
}

type LanguageCount struct {
	Language string `json:"language"`
	Count    int    `json:"count"`
}

type ToneCount struct {
	Tone  string `json:"tone"`
	Count int    `json:"count"`
}

// SystemStats is the raw table/status breakdown shown on the system page.
type SystemStats struct {
	Database struct {
		Users     int `json:"users"`
		Contents  int `json:"contents"`
		Templates int `json:"templates"`
	} `json:"database"`
	ContentByStatus struct {
		Published int `json:"published"`
		Draft     int `json:"draft"`
	} `json:"content_by_status"`
}

package promptbuild

// Every enum value declared in types.go must have exactly one entry in the
// matching table below; tables_test.go enforces it.

var AllTones = []Tone{ToneFormal, ToneCasual, ToneMentor, TonePeer, ToneProfessor, ToneTutor}

var AllAudienceLevels = []AudienceLevel{AudienceBeginner, AudienceIntermediate, AudienceAdvanced, AudienceMixed}

var AllStructures = []Structure{
	StructureBulletedList,
	StructureNumberedList,
	StructureStepByStep,
	StructureTable,
	StructureMarkdown,
	StructureParagraph,
	StructureDialogue,
	StructureJSON,
	StructureCustom,
}

var AllLengthUnits = []LengthUnit{UnitWords, UnitCharacters, UnitSentences, UnitParagraphs}

var toneDescriptions = map[Tone]string{
	ToneFormal:    "Keep your response professional and academic, but still clear and accessible.",
	ToneCasual:    "Be friendly and conversational - think of how you would explain this to a friend.",
	ToneMentor:    "Be supportive and encouraging, like a helpful teacher guiding someone through learning.",
	TonePeer:      "Explain like you're talking to a classmate - relatable and down-to-earth.",
	ToneProfessor: "Share your deep knowledge in an authoritative yet approachable way.",
	ToneTutor:     "Be patient and clear, breaking things down step-by-step with helpful examples.",
}

var audienceDescriptions = map[AudienceLevel]string{
	AudienceBeginner:     "The user is new to this topic, so start from basics and avoid assuming prior knowledge.",
	AudienceIntermediate: "The user has some foundation - you can build on basic concepts but explain new ideas clearly.",
	AudienceAdvanced:     "The user is knowledgeable, so you can discuss sophisticated concepts and nuanced details.",
	AudienceMixed:        "Adapt to the user's level - start accessible but be ready to go deeper if needed.",
}

var structureDescriptions = map[Structure]string{
	StructureBulletedList: "Organize your response with clear bullet points - make it easy to scan and understand.",
	StructureNumberedList: "Use a numbered list format to walk through points logically.",
	StructureStepByStep:   "Break it down step-by-step, like you're guiding someone through a process.",
	StructureTable:        "Present the information in a clean table format if that makes it clearer.",
	StructureMarkdown:     "Use markdown formatting naturally - headers, emphasis, code blocks where they help.",
	StructureParagraph:    "Write in natural, flowing paragraphs like you're having a conversation.",
	StructureDialogue:     "Structure this as a conversation or Q&A style.",
	StructureJSON:         "Return your response in valid JSON format.",
	StructureCustom:       "Follow the specific formatting needs mentioned.",
}

// Describe returns the directive sentence for t.
func (t Tone) Describe() (string, bool) {
	d, ok := toneDescriptions[t]
	return d, ok
}

func (a AudienceLevel) Describe() (string, bool) {
	d, ok := audienceDescriptions[a]
	return d, ok
}

func (s Structure) Describe() (string, bool) {
	d, ok := structureDescriptions[s]
	return d, ok
}

func (u LengthUnit) Valid() bool {
	for _, known := range AllLengthUnits {
		if u == known {
			return true
		}
	}
	return false
}

// specialFormattingPhrases lists the flag phrases in render order.
func specialFormattingPhrases(sf *SpecialFormatting) []string {
	if sf == nil {
		return nil
	}
	var out []string
	if sf.UseCodeBlocks {
		out = append(out, "Use code blocks for technical content")
	}
	if sf.IncludeTables {
		out = append(out, "Include tables where appropriate")
	}
	if sf.IncludeHeaders {
		out = append(out, "Use clear section headers")
	}
	if sf.UseEmphasis {
		out = append(out, "Use bold/italic text for emphasis")
	}
	return out
}

package promptbuild

import "time"

// FormatVersion is stamped on every CompiledPrompt.
const FormatVersion = "1.0.0"

// Tone is the communication style of the persona.
type Tone string

const (
	ToneFormal    Tone = "formal"
	ToneCasual    Tone = "casual"
	ToneMentor    Tone = "mentor"
	TonePeer      Tone = "peer"
	ToneProfessor Tone = "professor"
	ToneTutor     Tone = "tutor"
)

// AudienceLevel is the assumed background of the reader.
type AudienceLevel string

const (
	AudienceBeginner     AudienceLevel = "beginner"
	AudienceIntermediate AudienceLevel = "intermediate"
	AudienceAdvanced     AudienceLevel = "advanced"
	AudienceMixed        AudienceLevel = "mixed"
)

// Structure is the requested output shape.
type Structure string

const (
	StructureBulletedList Structure = "bulleted-list"
	StructureNumberedList Structure = "numbered-list"
	StructureStepByStep   Structure = "step-by-step"
	StructureTable        Structure = "table"
	StructureMarkdown     Structure = "markdown"
	StructureParagraph    Structure = "paragraph"
	StructureDialogue     Structure = "dialogue"
	StructureJSON         Structure = "json"
	StructureCustom       Structure = "custom"
)

// LengthUnit qualifies LengthSpec bounds.
type LengthUnit string

const (
	UnitWords      LengthUnit = "words"
	UnitCharacters LengthUnit = "characters"
	UnitSentences  LengthUnit = "sentences"
	UnitParagraphs LengthUnit = "paragraphs"
)

type CitationStyle string

const (
	CitationAPA     CitationStyle = "APA"
	CitationMLA     CitationStyle = "MLA"
	CitationIEEE    CitationStyle = "IEEE"
	CitationChicago CitationStyle = "Chicago"
	CitationHarvard CitationStyle = "Harvard"
	CitationSimple  CitationStyle = "simple"
)

type SourceType string

const (
	SourceTextbook       SourceType = "textbook"
	SourceResearchPaper  SourceType = "research-paper"
	SourceDocumentation  SourceType = "documentation"
	SourceCourseMaterial SourceType = "course-material"
	SourceOnlineResource SourceType = "online-resource"
)

// PersonaSpec describes who the model should act as.
type PersonaSpec struct {
	Role          string        `yaml:"role" json:"role"`
	Expertise     []string      `yaml:"expertise,omitempty" json:"expertise,omitempty"`
	Tone          Tone          `yaml:"tone,omitempty" json:"tone,omitempty"`
	AudienceLevel AudienceLevel `yaml:"audienceLevel,omitempty" json:"audienceLevel,omitempty"`
}

// TaskSpec describes what the model is asked to do.
type TaskSpec struct {
	Action          string   `yaml:"action" json:"action"`
	Objectives      []string `yaml:"objectives,omitempty" json:"objectives,omitempty"`
	Deliverables    []string `yaml:"deliverables,omitempty" json:"deliverables,omitempty"`
	SuccessCriteria []string `yaml:"successCriteria,omitempty" json:"successCriteria,omitempty"`
}

// LengthSpec bounds the response length. Nil bounds are absent.
type LengthSpec struct {
	Min    *int       `yaml:"min,omitempty" json:"min,omitempty"`
	Max    *int       `yaml:"max,omitempty" json:"max,omitempty"`
	Target *int       `yaml:"target,omitempty" json:"target,omitempty"`
	Unit   LengthUnit `yaml:"unit" json:"unit"`
}

type SpecialFormatting struct {
	UseCodeBlocks  bool `yaml:"useCodeBlocks,omitempty" json:"useCodeBlocks,omitempty"`
	IncludeTables  bool `yaml:"includeTables,omitempty" json:"includeTables,omitempty"`
	IncludeHeaders bool `yaml:"includeHeaders,omitempty" json:"includeHeaders,omitempty"`
	UseEmphasis    bool `yaml:"useEmphasis,omitempty" json:"useEmphasis,omitempty"`
}

// FormatSpec describes how the output should be structured.
type FormatSpec struct {
	Structure         Structure          `yaml:"structure" json:"structure"`
	Requirements      []string           `yaml:"requirements,omitempty" json:"requirements,omitempty"`
	Length            *LengthSpec        `yaml:"length,omitempty" json:"length,omitempty"`
	SpecialFormatting *SpecialFormatting `yaml:"specialFormatting,omitempty" json:"specialFormatting,omitempty"`
}

type AcademicContext struct {
	Course     string `yaml:"course,omitempty" json:"course,omitempty"`
	Semester   string `yaml:"semester,omitempty" json:"semester,omitempty"`
	University string `yaml:"university,omitempty" json:"university,omitempty"`
	Module     string `yaml:"module,omitempty" json:"module,omitempty"`
	Syllabus   string `yaml:"syllabus,omitempty" json:"syllabus,omitempty"`
}

func (a *AcademicContext) isEmpty() bool {
	return a == nil || (a.Course == "" && a.Semester == "" && a.University == "" && a.Module == "" && a.Syllabus == "")
}

type SubjectContext struct {
	Area          string   `yaml:"area,omitempty" json:"area,omitempty"`
	Level         string   `yaml:"level,omitempty" json:"level,omitempty"`
	Prerequisites []string `yaml:"prerequisites,omitempty" json:"prerequisites,omitempty"`
	Focus         string   `yaml:"focus,omitempty" json:"focus,omitempty"`
}

func (s *SubjectContext) isEmpty() bool {
	return s == nil || (s.Area == "" && s.Level == "" && len(s.Prerequisites) == 0 && s.Focus == "")
}

type StudentContext struct {
	PriorKnowledge string   `yaml:"priorKnowledge,omitempty" json:"priorKnowledge,omitempty"`
	LearningStyle  string   `yaml:"learningStyle,omitempty" json:"learningStyle,omitempty"`
	Difficulties   []string `yaml:"difficulties,omitempty" json:"difficulties,omitempty"`
	Goals          []string `yaml:"goals,omitempty" json:"goals,omitempty"`
}

func (s *StudentContext) isEmpty() bool {
	return s == nil || (s.PriorKnowledge == "" && s.LearningStyle == "" && len(s.Difficulties) == 0 && len(s.Goals) == 0)
}

type AdditionalContext struct {
	TimeConstraints string   `yaml:"timeConstraints,omitempty" json:"timeConstraints,omitempty"`
	Resources       []string `yaml:"resources,omitempty" json:"resources,omitempty"`
	Constraints     []string `yaml:"constraints,omitempty" json:"constraints,omitempty"`
}

func (a *AdditionalContext) isEmpty() bool {
	return a == nil || (a.TimeConstraints == "" && len(a.Resources) == 0 && len(a.Constraints) == 0)
}

// ContextSpec holds the optional background groups.
type ContextSpec struct {
	Academic   *AcademicContext   `yaml:"academic,omitempty" json:"academic,omitempty"`
	Subject    *SubjectContext    `yaml:"subject,omitempty" json:"subject,omitempty"`
	Student    *StudentContext    `yaml:"student,omitempty" json:"student,omitempty"`
	Additional *AdditionalContext `yaml:"additional,omitempty" json:"additional,omitempty"`
}

func (c ContextSpec) isEmpty() bool {
	return c.Academic.isEmpty() && c.Subject.isEmpty() && c.Student.isEmpty() && c.Additional.isEmpty()
}

type SourceSpec struct {
	Name   string     `yaml:"name" json:"name"`
	Type   SourceType `yaml:"type" json:"type"`
	URL    string     `yaml:"url,omitempty" json:"url,omitempty"`
	Author string     `yaml:"author,omitempty" json:"author,omitempty"`
}

// ReferencesSpec controls citations. IncludeReferences is a pointer so that a
// missing or mistyped value can be reported by Validate.
type ReferencesSpec struct {
	IncludeReferences *bool         `yaml:"includeReferences" json:"includeReferences"`
	CitationStyle     CitationStyle `yaml:"citationStyle,omitempty" json:"citationStyle,omitempty"`
	PreferredSources  []string      `yaml:"preferredSources,omitempty" json:"preferredSources,omitempty"`
	SpecificSources   []SourceSpec  `yaml:"specificSources,omitempty" json:"specificSources,omitempty"`
}

func (r ReferencesSpec) includes() bool {
	return r.IncludeReferences != nil && *r.IncludeReferences
}

// Metadata is informational only and never rendered into prompts.
type Metadata struct {
	Version      string    `yaml:"version,omitempty" json:"version,omitempty"`
	CreatedAt    time.Time `yaml:"createdAt,omitempty" json:"createdAt,omitempty"`
	LastModified time.Time `yaml:"lastModified,omitempty" json:"lastModified,omitempty"`
	Tags         []string  `yaml:"tags,omitempty" json:"tags,omitempty"`
}

// PromptConfiguration is the full declarative input of the compiler.
type PromptConfiguration struct {
	Persona    PersonaSpec    `yaml:"persona" json:"persona"`
	Task       TaskSpec       `yaml:"task" json:"task"`
	Format     FormatSpec     `yaml:"format" json:"format"`
	Context    ContextSpec    `yaml:"context" json:"context"`
	References ReferencesSpec `yaml:"references" json:"references"`
	Metadata   *Metadata      `yaml:"metadata,omitempty" json:"metadata,omitempty"`
}

// CompiledMetadata describes a compile call. Timestamp is the only field that
// differs between identical calls.
type CompiledMetadata struct {
	FormatVersion string    `json:"formatVersion"`
	Components    []string  `json:"components"`
	Timestamp     time.Time `json:"timestamp"`
}

type CompiledPrompt struct {
	SystemPrompt string           `json:"systemPrompt"`
	UserPrompt   string           `json:"userPrompt"`
	Metadata     CompiledMetadata `json:"metadata"`
}

// ValidationResult reports configuration defects (Errors) and quality
// concerns (Warnings). IsValid is true iff Errors is empty.
type ValidationResult struct {
	IsValid  bool     `json:"isValid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// Bool returns a pointer to v, for building ReferencesSpec literals.
func Bool(v bool) *bool { return &v }

// Int returns a pointer to v, for building LengthSpec literals.
func Int(v int) *int { return &v }

package lang

// Language represents a supported source language.
type Language string

const (
	Python     Language = "python"
	JavaScript Language = "javascript"
	TypeScript Language = "typescript"
	TSX        Language = "tsx"
	Go         Language = "go"
	Rust       Language = "rust"
	Java       Language = "java"
	C          Language = "c"
	CPP        Language = "cpp"
	CSharp     Language = "c-sharp"
	PHP        Language = "php"
	Ruby       Language = "ruby"
	Lua        Language = "lua"
	Scala      Language = "scala"
	Kotlin     Language = "kotlin"
	Bash       Language = "bash"
)

// AllLanguages returns all supported languages.
func AllLanguages() []Language {
	return []Language{
		Python, JavaScript, TypeScript, TSX, Go, Rust, Java,
		C, CPP, CSharp, PHP, Ruby, Lua, Scala, Kotlin, Bash,
	}
}

// LanguageSpec defines the comment syntax and tree-sitter node kinds used to
// extract annotation blocks and locate the code construct they describe.
type LanguageSpec struct {
	Language       Language
	FileExtensions []string

	// CommentNodeTypes lists AST node kinds that hold comments.
	CommentNodeTypes []string
	// LineComment is the line comment prefix stripped from annotation bodies.
	LineComment string
	// BlockCommentOpen/Close are the block comment delimiters, empty when the
	// language has none.
	BlockCommentOpen  string
	BlockCommentClose string
	// HasDocstrings enables annotation extraction from string literals that
	// open a module, class, or function body (Python-style docstrings).
	HasDocstrings bool

	// FunctionNodeTypes and ClassNodeTypes list the AST node kinds an
	// annotation block can attach to.
	FunctionNodeTypes []string
	ClassNodeTypes    []string
}

// registry maps file extensions to language specs.
var registry = map[string]*LanguageSpec{}

// Register adds a LanguageSpec to the extension table.
func Register(spec *LanguageSpec) {
	for _, ext := range spec.FileExtensions {
		registry[ext] = spec
	}
}

// ForExtension returns the LanguageSpec for a file extension (e.g. ".go").
func ForExtension(ext string) *LanguageSpec {
	return registry[ext]
}

// ForLanguage returns the LanguageSpec for a language.
func ForLanguage(lang Language) *LanguageSpec {
	for _, spec := range registry {
		if spec.Language == lang {
			return spec
		}
	}
	return nil
}

// LanguageForExtension returns the Language for a file extension.
func LanguageForExtension(ext string) (Language, bool) {
	spec := registry[ext]
	if spec == nil {
		return "", false
	}
	return spec.Language, true
}

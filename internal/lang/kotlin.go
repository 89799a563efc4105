package lang

func init() {
	Register(&LanguageSpec{
		Language:          Kotlin,
		FileExtensions:    []string{".kt", ".kts"},
		CommentNodeTypes:  []string{"line_comment", "multiline_comment"},
		LineComment:       "//",
		BlockCommentOpen:  "/*",
		BlockCommentClose: "*/",
		FunctionNodeTypes: []string{"function_declaration"},
		ClassNodeTypes:    []string{"class_declaration", "object_declaration"},
	})
}

package lang

func init() {
	Register(&LanguageSpec{
		Language:          Go,
		FileExtensions:    []string{".go"},
		CommentNodeTypes:  []string{"comment"},
		LineComment:       "//",
		BlockCommentOpen:  "/*",
		BlockCommentClose: "*/",
		FunctionNodeTypes: []string{"function_declaration", "method_declaration"},
		ClassNodeTypes:    []string{"type_spec"},
	})
}

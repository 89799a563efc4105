package lang

func init() {
	Register(&LanguageSpec{
		Language:          Lua,
		FileExtensions:    []string{".lua"},
		CommentNodeTypes:  []string{"comment"},
		LineComment:       "--",
		BlockCommentOpen:  "--[[",
		BlockCommentClose: "]]",
		FunctionNodeTypes: []string{"function_declaration", "function_definition"},
	})
}

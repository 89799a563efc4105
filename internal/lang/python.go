package lang

func init() {
	Register(&LanguageSpec{
		Language:          Python,
		FileExtensions:    []string{".py"},
		CommentNodeTypes:  []string{"comment"},
		LineComment:       "#",
		HasDocstrings:     true,
		FunctionNodeTypes: []string{"function_definition"},
		ClassNodeTypes:    []string{"class_definition"},
	})
}

package lang

func init() {
	Register(&LanguageSpec{
		Language:          Bash,
		FileExtensions:    []string{".sh", ".bash"},
		CommentNodeTypes:  []string{"comment"},
		LineComment:       "#",
		FunctionNodeTypes: []string{"function_definition"},
	})
}

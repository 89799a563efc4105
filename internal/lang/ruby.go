package lang

func init() {
	Register(&LanguageSpec{
		Language:          Ruby,
		FileExtensions:    []string{".rb", ".rake"},
		CommentNodeTypes:  []string{"comment"},
		LineComment:       "#",
		BlockCommentOpen:  "=begin",
		BlockCommentClose: "=end",
		FunctionNodeTypes: []string{"method", "singleton_method"},
		ClassNodeTypes:    []string{"class", "module"},
	})
}

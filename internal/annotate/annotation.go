package annotate

// block mirrors the YAML body of one annotation. All fields are optional;
// validation decides which absences matter.
type block struct {
	Type         string              `yaml:"type"`
	Name         string              `yaml:"name"`
	Description  string              `yaml:"description"`
	Owner        string              `yaml:"owner"`
	Status       string              `yaml:"status"`
	Tags         []string            `yaml:"tags"`
	Links        []linkDecl          `yaml:"links"`
	Context      contextDecl         `yaml:"context"`
	Dependencies map[string][]string `yaml:"dependencies"`
	Compliance   map[string]any      `yaml:"compliance"`
	Operational  operationalDecl     `yaml:"operational"`
}

type linkDecl struct {
	Type  string `yaml:"type"`
	URL   string `yaml:"url"`
	Title string `yaml:"title"`
}

type contextDecl struct {
	BusinessGoal  string `yaml:"business_goal"`
	FunnelStage   string `yaml:"funnel_stage"`
	RevenueImpact string `yaml:"revenue_impact"`
}

type operationalDecl struct {
	SLA                  string     `yaml:"sla"`
	OnCallTeam           string     `yaml:"on_call_team"`
	MonitoringDashboards []linkDecl `yaml:"monitoring_dashboards"`
}

func (o operationalDecl) empty() bool {
	return o.SLA == "" && o.OnCallTeam == "" && len(o.MonitoringDashboards) == 0
}

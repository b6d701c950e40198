package db

// Input table names, shared by every store
const (
	TableTeachers       = "docentes"
	TableClassGroups    = "turmas"
	TableScheduleBlocks = "horarios"
	TableRoles          = "cargos"
	TableRequirements   = "matriz_curricular"
	TableRuns           = "execucoes"
	TableTeacherResults = "resultados_docentes"
)

// RowMeta records where a record came from. It is not a column.
type RowMeta struct {
	// Row is the row number in the source table
	Row int
	// ParseErr is set when a cell could not be read into the record
	ParseErr error
}

// TeacherRecord is a row of the teachers table
type TeacherRecord struct {
	RowMeta          `ssql_header:"-" yaml:"-" json:"-"`
	ID               string `ssql_header:"id" ssql_type:"text" yaml:"id" json:"id" validate:"required"`
	Name             string `ssql_header:"nome" ssql_type:"text" yaml:"nome" json:"nome" validate:"required"`
	RecruitmentGroup string `ssql_header:"grupo" ssql_type:"text" yaml:"grupo" json:"grupo" validate:"required"`
	ReductionMinutes int    `ssql_header:"reducao_art79_min" ssql_type:"int" yaml:"reducao_art79_min" json:"reducao_art79_min" validate:"min=0"`
}

func (TeacherRecord) TableName() string { return TableTeachers }

// ClassGroupRecord is a row of the classes table
type ClassGroupRecord struct {
	RowMeta      `ssql_header:"-" yaml:"-" json:"-"`
	ID           string `ssql_header:"id" ssql_type:"text" yaml:"id" json:"id" validate:"required"`
	Cycle        string `ssql_header:"ciclo" ssql_type:"text" yaml:"ciclo" json:"ciclo" validate:"required"`
	Year         string `ssql_header:"ano" ssql_type:"text" yaml:"ano" json:"ano" validate:"required"`
	Track        string `ssql_header:"curso" ssql_type:"text" yaml:"curso" json:"curso"`
	StudentCount int    `ssql_header:"alunos" ssql_type:"int" yaml:"alunos" json:"alunos" validate:"min=0"`
	Site         string `ssql_header:"escola" ssql_type:"text" yaml:"escola" json:"escola"`
}

func (ClassGroupRecord) TableName() string { return TableClassGroups }

// ScheduleBlockRecord is a row of the timetable table
type ScheduleBlockRecord struct {
	RowMeta      `ssql_header:"-" yaml:"-" json:"-"`
	TeacherID    string `ssql_header:"docente_id" ssql_type:"text" yaml:"docente_id" json:"docente_id" validate:"required"`
	Weekday      string `ssql_header:"dia" ssql_type:"text" yaml:"dia" json:"dia" validate:"required"`
	Start        string `ssql_header:"inicio" ssql_type:"time" yaml:"inicio" json:"inicio" validate:"required"`
	End          string `ssql_header:"fim" ssql_type:"time" yaml:"fim" json:"fim" validate:"required"`
	Category     string `ssql_header:"tipo" ssql_type:"text" yaml:"tipo" json:"tipo" validate:"required"`
	Site         string `ssql_header:"escola" ssql_type:"text" yaml:"escola" json:"escola"`
	ClassGroupID string `ssql_header:"turma_id" ssql_type:"text" yaml:"turma_id" json:"turma_id"`
	Subject      string `ssql_header:"disciplina" ssql_type:"text" yaml:"disciplina" json:"disciplina"`
}

func (ScheduleBlockRecord) TableName() string { return TableScheduleBlocks }

// RoleAssignmentRecord is a row of the administrative duties table
type RoleAssignmentRecord struct {
	RowMeta       `ssql_header:"-" yaml:"-" json:"-"`
	TeacherID     string `ssql_header:"docente_id" ssql_type:"text" yaml:"docente_id" json:"docente_id" validate:"required"`
	DutyType      string `ssql_header:"cargo" ssql_type:"text" yaml:"cargo" json:"cargo" validate:"required"`
	WeeklyMinutes int    `ssql_header:"minutos_semanais" ssql_type:"int" yaml:"minutos_semanais" json:"minutos_semanais" validate:"min=0"`
	Imputation    string `ssql_header:"imputacao" ssql_type:"text" yaml:"imputacao" json:"imputacao"`
}

func (RoleAssignmentRecord) TableName() string { return TableRoles }

// CurriculumRequirementRecord is a row of the curriculum table
type CurriculumRequirementRecord struct {
	RowMeta         `ssql_header:"-" yaml:"-" json:"-"`
	Cycle           string `ssql_header:"ciclo" ssql_type:"text" yaml:"ciclo" json:"ciclo" validate:"required"`
	Year            string `ssql_header:"ano" ssql_type:"text" yaml:"ano" json:"ano" validate:"required"`
	Subject         string `ssql_header:"disciplina" ssql_type:"text" yaml:"disciplina" json:"disciplina" validate:"required"`
	RequiredMinutes int    `ssql_header:"minutos_semanais" ssql_type:"int" yaml:"minutos_semanais" json:"minutos_semanais" validate:"min=0"`
}

func (CurriculumRequirementRecord) TableName() string { return TableRequirements }

// EvaluationRun is a stored evaluation run. Credit figures are decimal strings.
type EvaluationRun struct {
	ID            string `ssql_header:"id" ssql_type:"uuid" json:"id"`
	CreatedAt     string `ssql_header:"criado_em" ssql_type:"timestamp" json:"createdAt"`
	Source        string `ssql_header:"origem" ssql_type:"text" json:"source"`
	Teachers      int    `ssql_header:"docentes" ssql_type:"int" json:"teachers"`
	Compliant     int    `ssql_header:"conformes" ssql_type:"int" json:"compliant"`
	Warnings      int    `ssql_header:"avisos" ssql_type:"int" json:"warnings"`
	Critical      int    `ssql_header:"criticos" ssql_type:"int" json:"critical"`
	DataIssues    int    `ssql_header:"problemas_dados" ssql_type:"int" json:"dataIssues"`
	Entitlement   string `ssql_header:"credito_atribuido" ssql_type:"decimal" json:"entitlement"`
	Consumed      string `ssql_header:"credito_consumido" ssql_type:"decimal" json:"consumed"`
	Balance       string `ssql_header:"credito_saldo" ssql_type:"decimal" json:"balance"`
	Apportionment string `ssql_header:"rateio_dt" ssql_type:"text" json:"apportionment"`
}

func (EvaluationRun) TableName() string { return TableRuns }

// TeacherResult is the stored outcome of one teacher in a run
type TeacherResult struct {
	RunID             string `ssql_header:"execucao_id" ssql_type:"uuid" json:"runId"`
	TeacherID         string `ssql_header:"docente_id" ssql_type:"text" json:"teacherId"`
	Severity          string `ssql_header:"gravidade" ssql_type:"text" json:"severity"`
	TeachingMinutes   int    `ssql_header:"letiva_min" ssql_type:"int" json:"teachingMinutes"`
	StudyMinutes      int    `ssql_header:"nlet_est_min" ssql_type:"int" json:"studyMinutes"`
	IndividualMinutes int    `ssql_header:"nlet_ind_min" ssql_type:"int" json:"individualMinutes"`
	Findings          string `ssql_header:"ocorrencias" ssql_type:"text" json:"findings"`
}

func (TeacherResult) TableName() string { return TableTeacherResults }

// RawDataset holds the input tables as read from a store, before validation
type RawDataset struct {
	Teachers     []TeacherRecord               `yaml:"docentes" json:"docentes"`
	Classes      []ClassGroupRecord            `yaml:"turmas" json:"turmas"`
	Blocks       []ScheduleBlockRecord         `yaml:"horarios" json:"horarios"`
	Roles        []RoleAssignmentRecord        `yaml:"cargos" json:"cargos"`
	Requirements []CurriculumRequirementRecord `yaml:"matriz_curricular" json:"matriz_curricular"`
}

package enums

type JobLocation string

const (
	JobLocationOnSite JobLocation = "on-site"
	JobLocationRemote JobLocation = "remote"
	JobLocationHybrid JobLocation = "hybrid"
)

type JobType string

const (
	JobTypeFullTime JobType = "full-time"
	JobTypePartTime JobType = "part-time"
)

type ExperienceLevel string

const (
	ExperienceLevelIntern ExperienceLevel = "intern"
	ExperienceLevelJunior ExperienceLevel = "junior"
	ExperienceLevelMiddle ExperienceLevel = "middle"
	ExperienceLevelSenior ExperienceLevel = "senior"
	ExperienceLevelLead   ExperienceLevel = "lead"
)

type Industry string

const (
	IndustrySoftwareEngineering Industry = "software-engineering"
	IndustryFinance             Industry = "finance"
	IndustryHealthcare          Industry = "healthcare"
	IndustryEducation           Industry = "education"
	IndustryRetail              Industry = "retail"
)

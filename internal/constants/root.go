package constants

import "time"

// SessionState represents the current state of the TUI application
type SessionState int

// Role represents the role of an authenticated user
type Role string

// BurnoutLevel is the display bucket derived from a numeric burnout risk
type BurnoutLevel string

const (
	AppName            = "neurogrowth"
	DefaultKeyringUser = "database-connection"
	TokenKeyringUser   = "session-token"
	DefaultConfigPath  = "~/.config/neurogrowth/neurogrowth.db"
	DefaultAPIURL      = "http://localhost:8000"
	ConfigFileName     = "config.yaml"
	Version            = "v0.3.0"

	// Environment variables
	EnvAPIURL       = "NEUROGROWTH_API_URL"
	EnvDBConnection = "NEUROGROWTH_DB_CONNECTION"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// Session storage keys
	SessionTokenKey = "token"
	SessionUserKey  = "user"

	// HTTP
	DefaultTimeout   = 30 * time.Second
	RequestIDHeader  = "X-Request-ID"
	DefaultLogsLimit = 30

	// Log file
	DefaultLogLevel      = "warn"
	DefaultLogMaxSizeMB  = 10
	DefaultLogMaxBackups = 3
	DefaultLogMaxAgeDays = 28

	// Lock
	LockfileName = "neurogrowth-tui.lock"

	// Roles
	RoleStudent Role = "student"
	RoleAdmin   Role = "admin"

	// Burnout display buckets
	BurnoutLow    BurnoutLevel = "low"
	BurnoutMedium BurnoutLevel = "medium"
	BurnoutHigh   BurnoutLevel = "high"

	BurnoutMediumThreshold = 0.35
	BurnoutHighThreshold   = 0.65
)

// Session States
const (
	StateLogin SessionState = iota
	StateOverview
	StateDailyLog
	StateRoadmap
	StateAssistant
	StateSimulator
	StateAdminStudents
	StateAdminClusters
	StateAdminRisk
	StateAdminDistribution
)

// Skills lists the skill options offered when logging a day.
var Skills = []string{"DSA", "ML", "DBMS", "OS", "CN", "Web Dev", "Math", "Aptitude", "Soft Skills", "Other"}

// StudentTabs are the main views available to students, in tab order.
var StudentTabs = []SessionState{StateOverview, StateDailyLog, StateRoadmap, StateAssistant, StateSimulator}

// AdminTabs are the main views available to admins, in tab order.
var AdminTabs = []SessionState{StateAdminStudents, StateAdminClusters, StateAdminRisk, StateAdminDistribution}

// Title returns the tab label for a state
func (s SessionState) Title() string {
	switch s {
	case StateLogin:
		return "Login"
	case StateOverview:
		return "Overview"
	case StateDailyLog:
		return "Daily Log"
	case StateRoadmap:
		return "Roadmap"
	case StateAssistant:
		return "Assistant"
	case StateSimulator:
		return "Simulator"
	case StateAdminStudents:
		return "Students"
	case StateAdminClusters:
		return "Clusters"
	case StateAdminRisk:
		return "Risk"
	case StateAdminDistribution:
		return "Distribution"
	default:
		return "Unknown"
	}
}

package aqhi

// Bracket is the named guidance bundle selected for a cycle. Downstream
// reporting consumes it verbatim; phrasing belongs to whoever renders it.
type Bracket string

const (
	BracketUnrestricted Bracket = "unrestricted"
	BracketMonitor      Bracket = "monitor"
	BracketRestrict     Bracket = "restrict"
)

// PopulationGroup identifies who a piece of guidance applies to.
type PopulationGroup string

const (
	GroupGeneral PopulationGroup = "general"
	GroupAtRisk  PopulationGroup = "at_risk"
)

// Guidance text keys. Renderers map these to actual wording.
const (
	GuidanceNoRestrictions          = "no_restrictions"
	GuidanceNormalActivity          = "normal_activity"
	GuidanceReduceProlongedExertion = "reduce_prolonged_exertion"
	GuidanceReduceOutdoorExertion   = "reduce_outdoor_exertion"
	GuidanceAvoidOutdoorActivity    = "avoid_outdoor_activity"
)

// Recommendation is the guidance bundle for one cycle.
type Recommendation struct {
	Bracket Bracket `json:"bracket"`

	// PositiveFraming tells the renderer that conditions are good and
	// caution language must not be manufactured.
	PositiveFraming bool `json:"positive_framing"`

	// Trend is passed through for tone only (improving/worsening
	// framing). It never influences the bracket.
	Trend TrendLabel `json:"trend"`

	Guidance map[PopulationGroup]string `json:"population_guidance"`

	// Restrictive-bracket extras.
	ProtectiveEquipment bool `json:"protective_equipment"`
	IndoorFiltration    bool `json:"indoor_filtration"`
}

// SelectBracket maps the instantaneous risk tier and PM2.5 reading onto
// a recommendation bracket. Rules are evaluated in order, first match
// wins. A nil pm25 means the reading is legitimately absent upstream;
// the index-derived tier alone decides, and nil is never treated as
// zero.
//
// Trend never changes the bracket: an increasing series must not
// escalate beyond what the instantaneous values warrant.
func SelectBracket(tier RiskTier, pm25 *float64, trend TrendLabel) Recommendation {
	switch {
	case tier == RiskLow && (pm25 == nil || *pm25 < PM25SafeLimit):
		return Recommendation{
			Bracket:         BracketUnrestricted,
			PositiveFraming: true,
			Trend:           trend,
			Guidance: map[PopulationGroup]string{
				GroupGeneral: GuidanceNoRestrictions,
				GroupAtRisk:  GuidanceNormalActivity,
			},
		}

	case tier == RiskModerate || (pm25 != nil && *pm25 >= PM25SafeLimit && *pm25 <= PM25HighLimit):
		return Recommendation{
			Bracket: BracketMonitor,
			Trend:   trend,
			Guidance: map[PopulationGroup]string{
				GroupGeneral: GuidanceNormalActivity,
				GroupAtRisk:  GuidanceReduceProlongedExertion,
			},
		}

	default:
		// Remaining combinations are exactly High/Very High tiers or
		// PM2.5 above the high limit.
		return Recommendation{
			Bracket:             BracketRestrict,
			Trend:               trend,
			ProtectiveEquipment: true,
			IndoorFiltration:    true,
			Guidance: map[PopulationGroup]string{
				GroupGeneral: GuidanceReduceOutdoorExertion,
				GroupAtRisk:  GuidanceAvoidOutdoorActivity,
			},
		}
	}
}

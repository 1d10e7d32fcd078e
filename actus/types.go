package actus

// ContractType identifies one of the supported ACTUS contract variants.
type ContractType string

const (
	PAM   ContractType = "PAM"   // principal at maturity
	LAM   ContractType = "LAM"   // linear amortizer
	LAX   ContractType = "LAX"   // exotic linear amortizer
	NAM   ContractType = "NAM"   // negative amortizer
	ANN   ContractType = "ANN"   // annuity
	CLM   ContractType = "CLM"   // call money
	UMP   ContractType = "UMP"   // undefined maturity profile
	CSH   ContractType = "CSH"   // cash
	STK   ContractType = "STK"   // stock
	COM   ContractType = "COM"   // commodity
	FXOUT ContractType = "FXOUT" // foreign exchange outright
	OPTNS ContractType = "OPTNS" // option
	FUTUR ContractType = "FUTUR" // future
	SWPPV ContractType = "SWPPV" // plain vanilla swap
	SWAPS ContractType = "SWAPS" // swap (composite legs)
	CAPFL ContractType = "CAPFL" // cap/floor
	CEG   ContractType = "CEG"   // credit enhancement guarantee
	CEC   ContractType = "CEC"   // credit enhancement collateral
)

// ContractRole states which side of the contract the subject holds.
type ContractRole string

const (
	RoleRPA ContractRole = "RPA" // real position asset
	RoleRPL ContractRole = "RPL" // real position liability
	RoleRFL ContractRole = "RFL" // receive first leg
	RolePFL ContractRole = "PFL" // pay first leg
	RoleLG  ContractRole = "LG"  // long
	RoleST  ContractRole = "ST"  // short
	RoleBUY ContractRole = "BUY" // buyer
	RoleSEL ContractRole = "SEL" // seller
	RoleCOL ContractRole = "COL" // collateral
	RoleGUA ContractRole = "GUA" // guarantor
	RoleOBL ContractRole = "OBL" // obligee
	RoleCNO ContractRole = "CNO" // counterparty of obligee
	RoleUDL ContractRole = "UDL" // underlying
)

// RoleSign maps a contract role to the cash-flow sign: +1 for asset-side
// roles, -1 for liability-side roles.
func RoleSign(role ContractRole) float64 {
	switch role {
	case RoleRPL, RoleST, RoleSEL, RolePFL, RoleGUA:
		return -1
	default:
		return 1
	}
}

// EventKind classifies contract events.
type EventKind string

const (
	EventAD   EventKind = "AD"   // analysis (monitoring)
	EventIED  EventKind = "IED"  // initial exchange
	EventPR   EventKind = "PR"   // principal redemption
	EventPI   EventKind = "PI"   // principal increase
	EventIP   EventKind = "IP"   // interest payment
	EventIPCI EventKind = "IPCI" // interest capitalization
	EventIPCB EventKind = "IPCB" // interest calculation base fixing
	EventRR   EventKind = "RR"   // rate reset
	EventRRF  EventKind = "RRF"  // rate reset fixing
	EventSC   EventKind = "SC"   // scaling index fixing
	EventFP   EventKind = "FP"   // fee payment
	EventPP   EventKind = "PP"   // principal prepayment
	EventPY   EventKind = "PY"   // penalty payment
	EventPRD  EventKind = "PRD"  // purchase
	EventTD   EventKind = "TD"   // termination
	EventMD   EventKind = "MD"   // maturity
	EventSTD  EventKind = "STD"  // settlement
	EventXD   EventKind = "XD"   // exercise
	EventDV   EventKind = "DV"   // dividend
	EventCE   EventKind = "CE"   // credit event
)

// Performance is the contract performance status.
type Performance string

const (
	PerformancePF Performance = "PF" // performant
	PerformanceDL Performance = "DL" // delayed
	PerformanceDQ Performance = "DQ" // delinquent
	PerformanceDF Performance = "DF" // default
)

// PenaltyType selects the prepayment penalty formula.
type PenaltyType string

const (
	PenaltyAbsolute PenaltyType = "A" // fixed amount
	PenaltyNotional PenaltyType = "N" // rate applied to notional over the period
	PenaltyRateDiff PenaltyType = "I" // rate differential against the market rate
)

// FeeBasis selects how fees accrue.
type FeeBasis string

const (
	FeeAbsolute FeeBasis = "A"
	FeeNotional FeeBasis = "N"
)

// DeliverySettlement distinguishes physical/gross from cash/net settlement.
type DeliverySettlement string

const (
	SettlementGross DeliverySettlement = "D"
	SettlementNet   DeliverySettlement = "S"
)

// OptionType is the exercise payoff shape of an OPTNS contract.
type OptionType string

const (
	OptionCall   OptionType = "C"
	OptionPut    OptionType = "P"
	OptionCollar OptionType = "CP"
)

// ExerciseType is the exercise style of an OPTNS contract.
type ExerciseType string

const (
	ExerciseEuropean ExerciseType = "E"
	ExerciseBermudan ExerciseType = "B"
	ExerciseAmerican ExerciseType = "A"
)

// InterestCalcBase selects what LAM-family interest accrues on.
type InterestCalcBase string

const (
	CalcBaseNT    InterestCalcBase = "NT"    // tracks current notional
	CalcBaseNTIED InterestCalcBase = "NTIED" // fixed at initial exchange
	CalcBaseNTL   InterestCalcBase = "NTL"   // fixed, reset only at IPCB events
)

// GuaranteeExtent selects what a CEG guarantee covers.
type GuaranteeExtent string

const (
	ExtentNominal       GuaranteeExtent = "NO" // outstanding notional
	ExtentNominalIntr   GuaranteeExtent = "NI" // notional plus accrued interest
	ExtentMarketValue   GuaranteeExtent = "MV" // notional, accrual and market value
)

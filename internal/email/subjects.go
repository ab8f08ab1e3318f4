package email

const (
	subjectTenderOfferFmt  = "Load offer %s: response requested"
	subjectTenderClosedFmt = "Load offer %s is no longer available"
	subjectInboundAlert    = "Inbound SMS needs review"
)

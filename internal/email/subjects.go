package email

const (
	subjectQuoteConfirmation   = "Your EV charger installation quotes are on the way"
	subjectLeadNotificationFmt = "New EV charger lead in %s, %s"
	subjectInstallerWelcome    = "Grow your business with EV Installers USA"
	subjectFollowUp            = "Still planning your EV charger installation?"
)

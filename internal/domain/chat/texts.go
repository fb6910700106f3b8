package chat

const (
	textWelcome     = "It looks like you haven't adopted a pet yet! Please choose a pet :)"
	textWelcomeBack = "Your last pet is gone. Choose a new friend below :)"
	textUnknownPet  = "We don't have that pet! Please choose one from the list below."
	textAskName     = "Please type a name for your pet."
	textFeedMenu    = "What do you want to feed your pet?"
	textPlayMenu    = "What do you want to play with your pet?"
	textSetUsage    = "Command not recognized. Usage:\nset hunger 100"
	textUnknown     = "Command not recognized. Type help for a list of available commands."
	textHelp        = "List of commands:\nfeed <food>\nplay <game>\nclean\nstatus\nhelp\ncredits"
	textCredits     = "Pet art and code by the RBM Boot Camp team. Thanks for playing!"
	textRanAway     = "ran away! Take better care of your next pet."
)

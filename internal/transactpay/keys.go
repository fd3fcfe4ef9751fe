package transactpay

// ModuleName is the technical name the host registers the module under.
const ModuleName = "ps_transactpay"

// Configuration keys. The names are persisted by existing installations and must not change.
const (
	FlagDisplayPaymentInvite = "TRANSACTPAY"

	KeyCustomText      = "TRANSACTPAY_CUSTOM_TEXT"
	KeySecretKey       = "TRANSACTPAY_SECRET_KEY"
	KeyPublicKey       = "TRANSACTPAY_PUBLIC_KEY"
	KeyEncryptionKey   = "TRANSACTPAY_ENCRYPTION_KEY"
	KeyReservationDays = "TRANSACTPAY_RESERVATION_DAYS"

	KeyGoLive            = "TRANSACTPAY_GO_LIVE"
	KeyTestSecretKey     = "TRANSACTPAY_TEST_SECRET_KEY"
	KeyTestPublicKey     = "TRANSACTPAY_TEST_PUBLIC_KEY"
	KeyTestEncryptionKey = "TRANSACTPAY_TEST_ENCRYPTION_KEY"

	KeyBankWireDetails         = "BANK_WIRE_DETAILS"
	KeyBankWireOwner           = "BANK_WIRE_OWNER"
	KeyBankWireAddress         = "BANK_WIRE_ADDRESS"
	KeyBankWireReservationDays = "BANK_WIRE_RESERVATION_DAYS"
	KeyBankWireCustomText      = "BANK_WIRE_CUSTOM_TEXT"
)

// Hook names.
const (
	HookActionPaymentCCAdd          = "actionPaymentCCAdd"
	HookActionObjectShopAddAfter    = "actionObjectShopAddAfter"
	HookPaymentOptions              = "paymentOptions"
	HookDisplayAdminOrderLeft       = "displayAdminOrderLeft"
	HookDisplayAdminOrderMainBottom = "displayAdminOrderMainBottom"
	HookDisplayCustomerAccount      = "displayCustomerAccount"
	HookDisplayOrderConfirmation    = "displayOrderConfirmation"
	HookDisplayOrderDetail          = "displayOrderDetail"
	HookDisplayPaymentByBinaries    = "displayPaymentByBinaries"
	HookDisplayPaymentReturn        = "displayPaymentReturn"
	HookDisplayPDFInvoice           = "displayPDFInvoice"
)

// Hooks lists every hook the module declares interest in.
var Hooks = []string{
	HookActionPaymentCCAdd,
	HookActionObjectShopAddAfter,
	HookPaymentOptions,
	HookDisplayAdminOrderLeft,
	HookDisplayAdminOrderMainBottom,
	HookDisplayCustomerAccount,
	HookDisplayOrderConfirmation,
	HookDisplayOrderDetail,
	HookDisplayPaymentByBinaries,
	HookDisplayPaymentReturn,
	HookDisplayPDFInvoice,
}

// installHooks are registered on install, in order.
var installHooks = []string{HookDisplayPaymentReturn, HookPaymentOptions}

// uninstallKeys are removed on uninstall. The first six are the module's own keys;
// the rest are the bank-wire form and credential keys so a reinstall starts clean.
var uninstallKeys = []string{
	KeyCustomText,
	KeySecretKey,
	KeyPublicKey,
	KeyEncryptionKey,
	KeyReservationDays,
	FlagDisplayPaymentInvite,

	// Legacy bank-wire and test/go-live keys are removed too, on purpose.
	KeyBankWireDetails,
	KeyBankWireOwner,
	KeyBankWireAddress,
	KeyBankWireReservationDays,
	KeyBankWireCustomText,
	KeyGoLive,
	KeyTestSecretKey,
	KeyTestPublicKey,
	KeyTestEncryptionKey,
}

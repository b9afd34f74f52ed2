package graphql

import "fmt"

// Operation names one GraphQL document and where its payload sits in the
// response. Mutations live under a namespace field (moneyPlan, auth,
// accounts); queries leave Namespace empty.
type Operation struct {
	Name      string
	Namespace string
	Field     string
	Document  string
}

// Request binds vars to the operation.
func (o Operation) Request(vars map[string]any) Request {
	return Request{Query: o.Document, OperationName: o.Name, Variables: vars}
}

const planFields = `
fragment PlanFields on MoneyPlan {
  id
  initialBalance
  remainingBalance
  notes
  isCommitted
  isArchived
  createdAt
  planDate
  archivedAt
  accounts {
    id
    isChecked
    notes
    account { id name notes }
    buckets { id name category allocatedAmount }
  }
}`

const accountFields = `id name notes`

// unionSelection is the selection set every mutation payload shares.
func unionSelection(successType, data string) string {
	s := `__typename
      ... on ApplicationError { message }
      ... on EmptySuccess { message }`
	if successType != "" {
		s += fmt.Sprintf(`
      ... on %s { message data { %s } }`, successType, data)
	}
	return s
}

func mutation(name, namespace, field, params, args, selection, fragments string) Operation {
	doc := fmt.Sprintf(`mutation %s(%s) {
  %s {
    %s(%s) {
      %s
    }
  }
}%s`, name, params, namespace, field, args, selection, fragments)
	return Operation{Name: name, Namespace: namespace, Field: field, Document: doc}
}

func planMutation(name, field, params, args string) Operation {
	return mutation(name, "moneyPlan", field, params, args,
		unionSelection("MoneyPlanSuccess", "...PlanFields"), planFields)
}

var (
	LoginOp = mutation("Login", "auth", "login",
		"$input: LoginInput!", "input: $input",
		unionSelection("AuthSuccess", "token user { id email name }"), "")

	RegisterOp = mutation("Register", "auth", "register",
		"$input: RegisterInput!", "input: $input",
		unionSelection("AuthSuccess", "token user { id email name }"), "")

	MeOp = Operation{Name: "Me", Field: "me", Document: `query Me {
  me { id email name }
}`}

	AccountsOp = Operation{Name: "Accounts", Field: "accounts", Document: `query Accounts {
  accounts { ` + accountFields + ` }
}`}

	CreateAccountOp = mutation("CreateAccount", "accounts", "create",
		"$input: CreateAccountInput!", "input: $input",
		unionSelection("AccountSuccess", accountFields), "")

	UpdateAccountOp = mutation("UpdateAccount", "accounts", "update",
		"$id: ID!, $input: UpdateAccountInput!", "id: $id, input: $input",
		unionSelection("AccountSuccess", accountFields), "")

	MoneyPlansOp = Operation{Name: "MoneyPlans", Field: "moneyPlans", Document: `query MoneyPlans {
  moneyPlans { ...PlanFields }
}` + planFields}

	MoneyPlanOp = Operation{Name: "MoneyPlan", Field: "moneyPlan", Document: `query MoneyPlan($id: ID!) {
  moneyPlan(id: $id) { ...PlanFields }
}` + planFields}

	DraftMoneyPlanOp = Operation{Name: "DraftMoneyPlan", Field: "draftMoneyPlan", Document: `query DraftMoneyPlan {
  draftMoneyPlan { ...PlanFields }
}` + planFields}

	StartPlanOp = planMutation("StartPlan", "startPlan",
		"$input: StartPlanInput!", "input: $input")

	AdjustPlanBalanceOp = planMutation("AdjustPlanBalance", "adjustPlanBalance",
		"$planId: ID!, $adjustment: Decimal!, $reason: String",
		"planId: $planId, adjustment: $adjustment, reason: $reason")

	CommitPlanOp = planMutation("CommitPlan", "commitPlan",
		"$planId: ID!", "planId: $planId")

	ArchivePlanOp = planMutation("ArchivePlan", "archivePlan",
		"$planId: ID!", "planId: $planId")

	AddAccountOp = planMutation("AddAccount", "addAccount",
		"$planId: ID!, $accountId: ID!", "planId: $planId, accountId: $accountId")

	ChangeAccountConfigurationOp = planMutation("ChangeAccountConfiguration", "changeAccountConfiguration",
		"$planId: ID!, $planAccountId: ID!, $buckets: [BucketInput!]!",
		"planId: $planId, planAccountId: $planAccountId, buckets: $buckets")

	RemoveAccountOp = planMutation("RemoveAccount", "removeAccount",
		"$planId: ID!, $planAccountId: ID!", "planId: $planId, planAccountId: $planAccountId")

	EditAccountNotesOp = planMutation("EditAccountNotes", "editAccountNotes",
		"$planId: ID!, $planAccountId: ID!, $notes: String!",
		"planId: $planId, planAccountId: $planAccountId, notes: $notes")

	EditPlanNotesOp = planMutation("EditPlanNotes", "editPlanNotes",
		"$planId: ID!, $notes: String!", "planId: $planId, notes: $notes")

	SetAccountCheckedStateOp = planMutation("SetAccountCheckedState", "setAccountCheckedState",
		"$planId: ID!, $planAccountId: ID!, $isChecked: Boolean!",
		"planId: $planId, planAccountId: $planAccountId, isChecked: $isChecked")

	CreateShareLinkOp = mutation("CreateShareLink", "moneyPlan", "createShareLink",
		"$planId: ID!, $expiryDays: Int!", "planId: $planId, expiryDays: $expiryDays",
		unionSelection("ShareLinkSuccess", "url expiresAt"), "")
)

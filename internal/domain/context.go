package domain

// Context é uma interface que encapsula o Go context.Context.
// É usado para propagar o timeout e sinais de cancelamento pelas camadas
// sem criar dependência direta do pacote "context" no domínio.
type Context interface{}

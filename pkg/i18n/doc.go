// Package i18n translates interface strings for the blog's locales.
//
// Translations are nested maps keyed by language and loaded once through a
// TranslationAdapter. The bundled YAML files under translations/ cover every
// locale in package locale and are available through Default:
//
//	tr, err := i18n.Default(ctx, i18n.WithLogger(log))
//	if err != nil {
//		return err
//	}
//	tr.T("fr", "nav.pricing")             // "Tarifs"
//	tr.Tc(ctx, "blog.readMore")           // locale taken from ctx
//	tr.RelativeTime("en", posted, now)    // "3 days ago"
//
// Keys are dot-separated paths into the tree. Placeholders use the %{name}
// form and are filled from name, value argument pairs. A key missing in the
// requested language resolves against the default language and then falls
// back to the key itself.
//
// ExportJSON returns one language's tree for client-side bundles.
package i18n

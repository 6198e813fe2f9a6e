package codegen

import (
	"fmt"
	"strings"

	"umlforge/internal/models"
)

func springImports(v *classView) []string {
	imports := []string{"jakarta.persistence.*"}
	needsList := len(v.toMany) > 0 || len(v.manyToMany) > 0
	if needsList {
		imports = append(imports, "java.util.ArrayList", "java.util.List")
	}
	for _, a := range v.class.Attributes {
		switch a.Type {
		case models.TypeDate:
			imports = append(imports, "java.util.Date")
		case models.TypeLocalDateTime:
			imports = append(imports, "java.time.LocalDateTime")
		}
	}
	return dedupStrings(imports)
}

func dedupStrings(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := in[:0]
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

func springEntity(v *classView, opts Options) string {
	name := javaClassName(v.class.Name)
	var b strings.Builder

	fmt.Fprintf(&b, "package %s.model;\n\n", opts.BasePackage)
	for _, imp := range springImports(v) {
		fmt.Fprintf(&b, "import %s;\n", imp)
	}
	b.WriteString("\n@Entity\n")
	fmt.Fprintf(&b, "@Table(name = \"%s\")\n", snake(name))

	decl := fmt.Sprintf("public class %s", name)
	if v.parent != nil {
		if v.parent.implements {
			decl += " implements " + v.parent.name
		} else {
			decl += " extends " + v.parent.name
		}
	}
	fmt.Fprintf(&b, "%s {\n\n", decl)

	var getters strings.Builder

	if v.hasOwnID() {
		b.WriteString("    @Id\n")
		b.WriteString("    @GeneratedValue(strategy = GenerationType.IDENTITY)\n")
		b.WriteString("    private Long id;\n\n")
		writeAccessor(&getters, "Long", "id")
	}

	for _, a := range v.class.Attributes {
		jt := javaType(a.Type)
		fn := fieldName(a.Name)
		fmt.Fprintf(&b, "    private %s %s;\n\n", jt, fn)
		writeAccessor(&getters, jt, fn)
	}

	for _, r := range v.toOne {
		fn := fieldName(r.target)
		b.WriteString("    @ManyToOne(fetch = FetchType.LAZY)\n")
		fmt.Fprintf(&b, "    @JoinColumn(name = \"%s_id\")\n", snake(r.target))
		fmt.Fprintf(&b, "    private %s %s;\n\n", r.target, fn)
		writeAccessor(&getters, r.target, fn)
	}

	for _, r := range v.toMany {
		fn := fieldName(plural(r.target))
		mappedBy := fieldName(name)
		if r.cascade {
			fmt.Fprintf(&b, "    @OneToMany(mappedBy = \"%s\", cascade = CascadeType.ALL, orphanRemoval = true)\n", mappedBy)
		} else {
			fmt.Fprintf(&b, "    @OneToMany(mappedBy = \"%s\")\n", mappedBy)
		}
		fmt.Fprintf(&b, "    private List<%s> %s = new ArrayList<>();\n\n", r.target, fn)
		writeAccessor(&getters, fmt.Sprintf("List<%s>", r.target), fn)
	}

	for _, m := range v.manyToMany {
		if m.assocClass != "" {
			// The join entity carries the relationship; each side holds its rows.
			fn := fieldName(plural(m.assocClass))
			fmt.Fprintf(&b, "    @OneToMany(mappedBy = \"%s\")\n", fieldName(name))
			fmt.Fprintf(&b, "    private List<%s> %s = new ArrayList<>();\n\n", m.assocClass, fn)
			writeAccessor(&getters, fmt.Sprintf("List<%s>", m.assocClass), fn)
			continue
		}
		fn := fieldName(plural(m.target))
		if m.owner {
			b.WriteString("    @ManyToMany\n")
			fmt.Fprintf(&b, "    @JoinTable(name = \"%s\",\n", m.joinName)
			fmt.Fprintf(&b, "        joinColumns = @JoinColumn(name = \"%s_id\"),\n", snake(name))
			fmt.Fprintf(&b, "        inverseJoinColumns = @JoinColumn(name = \"%s_id\"))\n", snake(m.target))
		} else {
			fmt.Fprintf(&b, "    @ManyToMany(mappedBy = \"%s\")\n", fieldName(plural(name)))
		}
		fmt.Fprintf(&b, "    private List<%s> %s = new ArrayList<>();\n\n", m.target, fn)
		writeAccessor(&getters, fmt.Sprintf("List<%s>", m.target), fn)
	}

	b.WriteString(getters.String())
	b.WriteString("}\n")
	return b.String()
}

// springAssocEntity renders the join entity for a many-to-many association
// that carries an association class: its own attributes plus a reference to
// each endpoint.
func springAssocEntity(ae assocClassView, opts Options) string {
	name := javaClassName(ae.class.Name)
	var b strings.Builder

	fmt.Fprintf(&b, "package %s.model;\n\n", opts.BasePackage)
	imports := []string{"jakarta.persistence.*"}
	for _, a := range ae.class.Attributes {
		switch a.Type {
		case models.TypeDate:
			imports = append(imports, "java.util.Date")
		case models.TypeLocalDateTime:
			imports = append(imports, "java.time.LocalDateTime")
		}
	}
	for _, imp := range dedupStrings(imports) {
		fmt.Fprintf(&b, "import %s;\n", imp)
	}
	b.WriteString("\n@Entity\n")
	fmt.Fprintf(&b, "@Table(name = \"%s\")\n", snake(name))
	fmt.Fprintf(&b, "public class %s {\n\n", name)

	var getters strings.Builder

	b.WriteString("    @Id\n")
	b.WriteString("    @GeneratedValue(strategy = GenerationType.IDENTITY)\n")
	b.WriteString("    private Long id;\n\n")
	writeAccessor(&getters, "Long", "id")

	for _, side := range []string{ae.left, ae.right} {
		fn := fieldName(side)
		b.WriteString("    @ManyToOne(fetch = FetchType.LAZY)\n")
		fmt.Fprintf(&b, "    @JoinColumn(name = \"%s_id\")\n", snake(side))
		fmt.Fprintf(&b, "    private %s %s;\n\n", side, fn)
		writeAccessor(&getters, side, fn)
	}

	for _, a := range ae.class.Attributes {
		jt := javaType(a.Type)
		fn := fieldName(a.Name)
		fmt.Fprintf(&b, "    private %s %s;\n\n", jt, fn)
		writeAccessor(&getters, jt, fn)
	}

	b.WriteString(getters.String())
	b.WriteString("}\n")
	return b.String()
}

func writeAccessor(b *strings.Builder, javaType, field string) {
	upper := strings.ToUpper(field[:1]) + field[1:]
	fmt.Fprintf(b, "    public %s get%s() {\n        return %s;\n    }\n\n", javaType, upper, field)
	fmt.Fprintf(b, "    public void set%s(%s %s) {\n        this.%s = %s;\n    }\n\n", upper, javaType, field, field, field)
}

func springRepository(name string, opts Options) string {
	var b strings.Builder
	fmt.Fprintf(&b, "package %s.repository;\n\n", opts.BasePackage)
	fmt.Fprintf(&b, "import %s.model.%s;\n", opts.BasePackage, name)
	b.WriteString("import org.springframework.data.jpa.repository.JpaRepository;\n")
	b.WriteString("import org.springframework.stereotype.Repository;\n\n")
	b.WriteString("@Repository\n")
	fmt.Fprintf(&b, "public interface %sRepository extends JpaRepository<%s, Long> {\n}\n", name, name)
	return b.String()
}

func springService(name string, opts Options) string {
	field := fieldName(name) + "Repository"
	var b strings.Builder
	fmt.Fprintf(&b, "package %s.service;\n\n", opts.BasePackage)
	fmt.Fprintf(&b, "import %s.model.%s;\n", opts.BasePackage, name)
	fmt.Fprintf(&b, "import %s.repository.%sRepository;\n", opts.BasePackage, name)
	b.WriteString("import org.springframework.stereotype.Service;\n\n")
	b.WriteString("import java.util.List;\nimport java.util.Optional;\n\n")
	b.WriteString("@Service\n")
	fmt.Fprintf(&b, "public class %sService {\n\n", name)
	fmt.Fprintf(&b, "    private final %sRepository %s;\n\n", name, field)
	fmt.Fprintf(&b, "    public %sService(%sRepository %s) {\n        this.%s = %s;\n    }\n\n", name, name, field, field, field)
	fmt.Fprintf(&b, "    public List<%s> findAll() {\n        return %s.findAll();\n    }\n\n", name, field)
	fmt.Fprintf(&b, "    public Optional<%s> findById(Long id) {\n        return %s.findById(id);\n    }\n\n", name, field)
	fmt.Fprintf(&b, "    public %s save(%s entity) {\n        return %s.save(entity);\n    }\n\n", name, name, field)
	fmt.Fprintf(&b, "    public void deleteById(Long id) {\n        %s.deleteById(id);\n    }\n", field)
	b.WriteString("}\n")
	return b.String()
}

func springController(name string, opts Options) string {
	service := fieldName(name) + "Service"
	route := strings.ToLower(plural(snake(name)))
	var b strings.Builder
	fmt.Fprintf(&b, "package %s.controller;\n\n", opts.BasePackage)
	fmt.Fprintf(&b, "import %s.model.%s;\n", opts.BasePackage, name)
	fmt.Fprintf(&b, "import %s.service.%sService;\n", opts.BasePackage, name)
	b.WriteString("import org.springframework.http.ResponseEntity;\n")
	b.WriteString("import org.springframework.web.bind.annotation.*;\n\n")
	b.WriteString("import java.util.List;\n\n")
	b.WriteString("@RestController\n")
	fmt.Fprintf(&b, "@RequestMapping(\"/api/%s\")\n", route)
	fmt.Fprintf(&b, "public class %sController {\n\n", name)
	fmt.Fprintf(&b, "    private final %sService %s;\n\n", name, service)
	fmt.Fprintf(&b, "    public %sController(%sService %s) {\n        this.%s = %s;\n    }\n\n", name, name, service, service, service)
	b.WriteString("    @GetMapping\n")
	fmt.Fprintf(&b, "    public List<%s> getAll() {\n        return %s.findAll();\n    }\n\n", name, service)
	b.WriteString("    @GetMapping(\"/{id}\")\n")
	fmt.Fprintf(&b, "    public ResponseEntity<%s> getById(@PathVariable Long id) {\n", name)
	fmt.Fprintf(&b, "        return %s.findById(id)\n", service)
	b.WriteString("            .map(ResponseEntity::ok)\n")
	b.WriteString("            .orElse(ResponseEntity.notFound().build());\n    }\n\n")
	b.WriteString("    @PostMapping\n")
	fmt.Fprintf(&b, "    public %s create(@RequestBody %s entity) {\n        return %s.save(entity);\n    }\n\n", name, name, service)
	b.WriteString("    @PutMapping(\"/{id}\")\n")
	fmt.Fprintf(&b, "    public %s update(@PathVariable Long id, @RequestBody %s entity) {\n", name, name)
	b.WriteString("        entity.setId(id);\n")
	fmt.Fprintf(&b, "        return %s.save(entity);\n    }\n\n", service)
	b.WriteString("    @DeleteMapping(\"/{id}\")\n")
	b.WriteString("    public ResponseEntity<Void> delete(@PathVariable Long id) {\n")
	fmt.Fprintf(&b, "        %s.deleteById(id);\n", service)
	b.WriteString("        return ResponseEntity.noContent().build();\n    }\n")
	b.WriteString("}\n")
	return b.String()
}

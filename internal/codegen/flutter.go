package codegen

import (
	"fmt"
	"strings"
)

func flutterModel(v *classView) string {
	name := javaClassName(v.class.Name)
	var b strings.Builder

	fmt.Fprintf(&b, "class %s {\n", name)
	b.WriteString("  final int? id;\n")
	for _, a := range v.class.Attributes {
		fmt.Fprintf(&b, "  final %s? %s;\n", dartType(a.Type), fieldName(a.Name))
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "  %s({\n    this.id,\n", name)
	for _, a := range v.class.Attributes {
		fmt.Fprintf(&b, "    this.%s,\n", fieldName(a.Name))
	}
	b.WriteString("  });\n\n")

	fmt.Fprintf(&b, "  factory %s.fromJson(Map<String, dynamic> json) {\n", name)
	fmt.Fprintf(&b, "    return %s(\n", name)
	b.WriteString("      id: json['id'] as int?,\n")
	for _, a := range v.class.Attributes {
		fn := fieldName(a.Name)
		switch dartType(a.Type) {
		case "DateTime":
			fmt.Fprintf(&b, "      %s: json['%s'] != null ? DateTime.tryParse(json['%s'] as String) : null,\n", fn, fn, fn)
		case "double":
			fmt.Fprintf(&b, "      %s: (json['%s'] as num?)?.toDouble(),\n", fn, fn)
		default:
			fmt.Fprintf(&b, "      %s: json['%s'] as %s?,\n", fn, fn, dartType(a.Type))
		}
	}
	b.WriteString("    );\n  }\n\n")

	b.WriteString("  Map<String, dynamic> toJson() {\n    return {\n")
	b.WriteString("      'id': id,\n")
	for _, a := range v.class.Attributes {
		fn := fieldName(a.Name)
		if dartType(a.Type) == "DateTime" {
			fmt.Fprintf(&b, "      '%s': %s?.toIso8601String(),\n", fn, fn)
		} else {
			fmt.Fprintf(&b, "      '%s': %s,\n", fn, fn)
		}
	}
	b.WriteString("    };\n  }\n")
	b.WriteString("}\n")
	return b.String()
}

func flutterService(name string, opts Options) string {
	file := snake(name)
	route := strings.ToLower(plural(snake(name)))
	field := fieldName(name)
	var b strings.Builder

	b.WriteString("import 'dart:convert';\n\n")
	b.WriteString("import 'package:http/http.dart' as http;\n\n")
	fmt.Fprintf(&b, "import '../models/%s.dart';\n\n", file)
	fmt.Fprintf(&b, "class %sService {\n", name)
	fmt.Fprintf(&b, "  static const String baseUrl = 'http://localhost:8080/api/%s';\n\n", route)

	fmt.Fprintf(&b, "  Future<List<%s>> fetchAll() async {\n", name)
	b.WriteString("    final response = await http.get(Uri.parse(baseUrl));\n")
	b.WriteString("    if (response.statusCode != 200) {\n")
	fmt.Fprintf(&b, "      throw Exception('Failed to load %s list');\n", field)
	b.WriteString("    }\n")
	b.WriteString("    final data = jsonDecode(response.body) as List<dynamic>;\n")
	fmt.Fprintf(&b, "    return data.map((e) => %s.fromJson(e as Map<String, dynamic>)).toList();\n", name)
	b.WriteString("  }\n\n")

	fmt.Fprintf(&b, "  Future<%s> create(%s %s) async {\n", name, name, field)
	b.WriteString("    final response = await http.post(\n      Uri.parse(baseUrl),\n")
	b.WriteString("      headers: {'Content-Type': 'application/json'},\n")
	fmt.Fprintf(&b, "      body: jsonEncode(%s.toJson()),\n    );\n", field)
	b.WriteString("    if (response.statusCode != 200 && response.statusCode != 201) {\n")
	fmt.Fprintf(&b, "      throw Exception('Failed to create %s');\n", field)
	b.WriteString("    }\n")
	fmt.Fprintf(&b, "    return %s.fromJson(jsonDecode(response.body) as Map<String, dynamic>);\n", name)
	b.WriteString("  }\n\n")

	fmt.Fprintf(&b, "  Future<%s> update(int id, %s %s) async {\n", name, name, field)
	b.WriteString("    final response = await http.put(\n      Uri.parse('$baseUrl/$id'),\n")
	b.WriteString("      headers: {'Content-Type': 'application/json'},\n")
	fmt.Fprintf(&b, "      body: jsonEncode(%s.toJson()),\n    );\n", field)
	b.WriteString("    if (response.statusCode != 200) {\n")
	fmt.Fprintf(&b, "      throw Exception('Failed to update %s');\n", field)
	b.WriteString("    }\n")
	fmt.Fprintf(&b, "    return %s.fromJson(jsonDecode(response.body) as Map<String, dynamic>);\n", name)
	b.WriteString("  }\n\n")

	b.WriteString("  Future<void> delete(int id) async {\n")
	b.WriteString("    final response = await http.delete(Uri.parse('$baseUrl/$id'));\n")
	b.WriteString("    if (response.statusCode != 200 && response.statusCode != 204) {\n")
	fmt.Fprintf(&b, "      throw Exception('Failed to delete %s');\n", field)
	b.WriteString("    }\n  }\n")
	b.WriteString("}\n")
	return b.String()
}

func flutterProvider(name string) string {
	file := snake(name)
	field := fieldName(name)
	items := fieldName(plural(name))
	var b strings.Builder

	b.WriteString("import 'package:flutter/foundation.dart';\n\n")
	fmt.Fprintf(&b, "import '../models/%s.dart';\n", file)
	fmt.Fprintf(&b, "import '../services/%s_service.dart';\n\n", file)
	fmt.Fprintf(&b, "class %sProvider extends ChangeNotifier {\n", name)
	fmt.Fprintf(&b, "  final %sService _service = %sService();\n\n", name, name)
	fmt.Fprintf(&b, "  List<%s> %s = [];\n", name, items)
	b.WriteString("  bool loading = false;\n")
	b.WriteString("  String? error;\n\n")

	b.WriteString("  Future<void> load() async {\n")
	b.WriteString("    loading = true;\n    error = null;\n    notifyListeners();\n")
	b.WriteString("    try {\n")
	fmt.Fprintf(&b, "      %s = await _service.fetchAll();\n", items)
	b.WriteString("    } catch (e) {\n      error = e.toString();\n    }\n")
	b.WriteString("    loading = false;\n    notifyListeners();\n  }\n\n")

	fmt.Fprintf(&b, "  Future<void> add(%s %s) async {\n", name, field)
	fmt.Fprintf(&b, "    final created = await _service.create(%s);\n", field)
	fmt.Fprintf(&b, "    %s.add(created);\n", items)
	b.WriteString("    notifyListeners();\n  }\n\n")

	fmt.Fprintf(&b, "  Future<void> replace(int id, %s %s) async {\n", name, field)
	fmt.Fprintf(&b, "    final updated = await _service.update(id, %s);\n", field)
	fmt.Fprintf(&b, "    final index = %s.indexWhere((e) => e.id == id);\n", items)
	b.WriteString("    if (index >= 0) {\n")
	fmt.Fprintf(&b, "      %s[index] = updated;\n", items)
	b.WriteString("      notifyListeners();\n    }\n  }\n\n")

	b.WriteString("  Future<void> remove(int id) async {\n")
	b.WriteString("    await _service.delete(id);\n")
	fmt.Fprintf(&b, "    %s.removeWhere((e) => e.id == id);\n", items)
	b.WriteString("    notifyListeners();\n  }\n")
	b.WriteString("}\n")
	return b.String()
}

func flutterScreen(v *classView) string {
	name := javaClassName(v.class.Name)
	file := snake(name)
	items := fieldName(plural(name))
	var b strings.Builder

	b.WriteString("import 'package:flutter/material.dart';\n")
	b.WriteString("import 'package:provider/provider.dart';\n\n")
	fmt.Fprintf(&b, "import '../providers/%s_provider.dart';\n\n", file)
	fmt.Fprintf(&b, "class %sScreen extends StatefulWidget {\n", name)
	fmt.Fprintf(&b, "  const %sScreen({super.key});\n\n", name)
	b.WriteString("  @override\n")
	fmt.Fprintf(&b, "  State<%sScreen> createState() => _%sScreenState();\n", name, name)
	b.WriteString("}\n\n")
	fmt.Fprintf(&b, "class _%sScreenState extends State<%sScreen> {\n", name, name)
	b.WriteString("  @override\n  void initState() {\n    super.initState();\n")
	fmt.Fprintf(&b, "    Future.microtask(() => context.read<%sProvider>().load());\n", name)
	b.WriteString("  }\n\n")
	b.WriteString("  @override\n  Widget build(BuildContext context) {\n")
	fmt.Fprintf(&b, "    final provider = context.watch<%sProvider>();\n", name)
	b.WriteString("    return Scaffold(\n")
	fmt.Fprintf(&b, "      appBar: AppBar(title: const Text('%s')),\n", plural(name))
	b.WriteString("      body: provider.loading\n")
	b.WriteString("          ? const Center(child: CircularProgressIndicator())\n")
	b.WriteString("          : provider.error != null\n")
	b.WriteString("              ? Center(child: Text(provider.error!))\n")
	b.WriteString("              : ListView.builder(\n")
	fmt.Fprintf(&b, "                  itemCount: provider.%s.length,\n", items)
	b.WriteString("                  itemBuilder: (context, index) {\n")
	fmt.Fprintf(&b, "                    final item = provider.%s[index];\n", items)
	b.WriteString("                    return ListTile(\n")
	titleExpr := "item.id.toString()"
	if len(v.class.Attributes) > 0 {
		titleExpr = fmt.Sprintf("'${item.%s}'", fieldName(v.class.Attributes[0].Name))
	}
	fmt.Fprintf(&b, "                      title: Text(%s),\n", titleExpr)
	b.WriteString("                      trailing: IconButton(\n")
	b.WriteString("                        icon: const Icon(Icons.delete),\n")
	b.WriteString("                        onPressed: () => provider.remove(item.id!),\n")
	b.WriteString("                      ),\n")
	b.WriteString("                    );\n                  },\n                ),\n")
	b.WriteString("    );\n  }\n}\n")
	return b.String()
}

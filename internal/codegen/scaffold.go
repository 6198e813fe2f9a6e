package codegen

import (
	"fmt"
	"strings"
)

func springPom(opts Options) string {
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<project xmlns="http://maven.apache.org/POM/4.0.0"
         xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance"
         xsi:schemaLocation="http://maven.apache.org/POM/4.0.0 http://maven.apache.org/xsd/maven-4.0.0.xsd">
    <modelVersion>4.0.0</modelVersion>

    <parent>
        <groupId>org.springframework.boot</groupId>
        <artifactId>spring-boot-starter-parent</artifactId>
        <version>3.2.0</version>
        <relativePath/>
    </parent>

    <groupId>%s</groupId>
    <artifactId>%s</artifactId>
    <version>0.0.1-SNAPSHOT</version>

    <properties>
        <java.version>17</java.version>
    </properties>

    <dependencies>
        <dependency>
            <groupId>org.springframework.boot</groupId>
            <artifactId>spring-boot-starter-web</artifactId>
        </dependency>
        <dependency>
            <groupId>org.springframework.boot</groupId>
            <artifactId>spring-boot-starter-data-jpa</artifactId>
        </dependency>
        <dependency>
            <groupId>org.postgresql</groupId>
            <artifactId>postgresql</artifactId>
            <scope>runtime</scope>
        </dependency>
    </dependencies>

    <build>
        <plugins>
            <plugin>
                <groupId>org.springframework.boot</groupId>
                <artifactId>spring-boot-maven-plugin</artifactId>
            </plugin>
        </plugins>
    </build>
</project>
`, opts.BasePackage, opts.ProjectName)
}

func springProperties(opts Options) string {
	db := strings.ReplaceAll(opts.ProjectName, "-", "_")
	return fmt.Sprintf(`spring.datasource.url=jdbc:postgresql://localhost:5432/%s
spring.datasource.username=postgres
spring.datasource.password=postgres
spring.jpa.hibernate.ddl-auto=update
spring.jpa.show-sql=false
server.port=8080
`, db)
}

func flutterPubspec(opts Options) string {
	name := strings.ReplaceAll(opts.ProjectName, "-", "_")
	return fmt.Sprintf(`name: %s
description: Generated Flutter client.
publish_to: "none"
version: 1.0.0+1

environment:
  sdk: ">=3.0.0 <4.0.0"

dependencies:
  flutter:
    sdk: flutter
  http: ^1.1.0
  provider: ^6.1.0

dev_dependencies:
  flutter_test:
    sdk: flutter

flutter:
  uses-material-design: true
`, name)
}

func flutterMain(views []*classView, opts Options) string {
	var b strings.Builder
	b.WriteString("import 'package:flutter/material.dart';\n")
	b.WriteString("import 'package:provider/provider.dart';\n\n")
	for _, v := range views {
		file := snake(javaClassName(v.class.Name))
		fmt.Fprintf(&b, "import 'providers/%s_provider.dart';\n", file)
	}
	if len(views) > 0 {
		fmt.Fprintf(&b, "import 'screens/%s_screen.dart';\n", snake(javaClassName(views[0].class.Name)))
	}
	b.WriteString("\nvoid main() {\n  runApp(const App());\n}\n\n")
	b.WriteString("class App extends StatelessWidget {\n")
	b.WriteString("  const App({super.key});\n\n")
	b.WriteString("  @override\n  Widget build(BuildContext context) {\n")
	b.WriteString("    return MultiProvider(\n      providers: [\n")
	for _, v := range views {
		name := javaClassName(v.class.Name)
		fmt.Fprintf(&b, "        ChangeNotifierProvider(create: (_) => %sProvider()),\n", name)
	}
	b.WriteString("      ],\n")
	b.WriteString("      child: MaterialApp(\n")
	fmt.Fprintf(&b, "        title: '%s',\n", opts.ProjectName)
	b.WriteString("        theme: ThemeData(primarySwatch: Colors.indigo),\n")
	if len(views) > 0 {
		fmt.Fprintf(&b, "        home: const %sScreen(),\n", javaClassName(views[0].class.Name))
	} else {
		b.WriteString("        home: const Scaffold(body: Center(child: Text('No classes generated'))),\n")
	}
	b.WriteString("      ),\n    );\n  }\n}\n")
	return b.String()
}
